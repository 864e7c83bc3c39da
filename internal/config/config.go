package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// BackendURLEnv overrides the backend_url key when set.
const BackendURLEnv = "BOOKSHELF_BACKEND_URL"

// Config captures the settings bookshelf needs at startup.
type Config struct {
	BackendURL     string
	RequestTimeout time.Duration
	LogDir         string
	// RefreshInterval reloads the collection in the background. Zero
	// leaves refreshing to startup, mutations and the refresh key.
	RefreshInterval time.Duration
}

const (
	defaultConfigPath     = "~/.config/bookshelf/config.toml"
	defaultLogDir         = "~/.local/state/bookshelf"
	defaultBackendURL     = "http://127.0.0.1:5555"
	defaultRequestTimeout = 10 * time.Second
	logFileName           = "bookshelf.log"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// LoadDotenv reads .env style files into the process environment. Variables
// that are already set win, and missing files are skipped.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load locates and parses the bookshelf config, falling back to defaults when
// missing. BOOKSHELF_BACKEND_URL takes precedence over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BackendURL:     defaultBackendURL,
		RequestTimeout: defaultRequestTimeout,
		LogDir:         mustExpand(defaultLogDir),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BackendURL     string `toml:"backend_url"`
		RequestTimeout int    `toml:"request_timeout_seconds"`
		LogDir         string `toml:"log_dir"`
		RefreshEvery   int    `toml:"refresh_interval_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BackendURL); v != "" {
		cfg.BackendURL = v
	}
	if raw.RequestTimeout < 0 {
		return Config{}, fmt.Errorf("parse config: request_timeout_seconds must not be negative")
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if raw.RefreshEvery < 0 {
		return Config{}, fmt.Errorf("parse config: refresh_interval_seconds must not be negative")
	}
	cfg.RefreshInterval = time.Duration(raw.RefreshEvery) * time.Second

	applyEnv(&cfg)
	return cfg, nil
}

// LogPath returns the path of the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(BackendURLEnv)); v != "" {
		cfg.BackendURL = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
