// Package app is the composition root of bookshelf.
//
// # Overview
//
// Run loads configuration, points the standard logger at the log file,
// builds a Session and hands it to the terminal UI. It blocks until the
// user quits or the context is cancelled.
//
// # Components
//
//   - app.go: Run, Session and log redirection
//   - poller.go: Optional background refresh of the collection
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        TOML file + environment
//	       ├─────> redirectLog()        <log_dir>/bookshelf.log
//	       ├─────> NewSession()
//	       │         ├─> books.NewClient()   HTTP client, cookie jar, CSRF provider
//	       │         ├─> state.NewStore()    book collection
//	       │         ├─> notify.NewBoard()   notification flags
//	       │         └─> detail.New()        dialog controller
//	       ├─────> StartPoller()        only when refresh_interval_seconds > 0
//	       └─────> ui.Run()             TUI (blocks)
//
// The UI fetches the CSRF token and the collection itself once it starts,
// so a backend that is down delays nothing: the header reports the error
// and the r key retries.
//
// # Error Handling
//
// Only startup errors are returned: an unreadable or invalid config file,
// an unusable backend URL or log directory. Request failures after that are
// logged and surface as notifications or header state.
package app
