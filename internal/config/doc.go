// Package config loads the bookshelf client configuration.
//
// # Resolution Order
//
//  1. Defaults
//  2. The TOML file (explicit path, or ~/.config/bookshelf/config.toml)
//  3. BOOKSHELF_BACKEND_URL from the environment
//
// A missing config file is not an error. LoadDotenv can be called first to
// pull .env and .env.local into the environment; variables that are already
// set are never replaced.
//
// # Default Values
//
//   - Config file: ~/.config/bookshelf/config.toml
//   - Backend URL: http://127.0.0.1:5555
//   - Request timeout: 10 seconds
//   - Log directory: ~/.local/state/bookshelf
//   - Background refresh: off
//   - Client log: <log_dir>/bookshelf.log
//
// # TOML Format
//
//	backend_url = "http://127.0.0.1:5555"
//	request_timeout_seconds = 10
//	log_dir = "~/.local/state/bookshelf"
//	refresh_interval_seconds = 0
//
// All keys are optional. Empty strings and a zero timeout select the
// default; negative timeouts and intervals are rejected. Tilde expansion applies to
// log_dir and the config path.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and invalid values.
package config
