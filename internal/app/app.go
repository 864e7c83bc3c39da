package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/detail"
	"github.com/five82/bookshelf/internal/notify"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/state"
	"github.com/five82/bookshelf/internal/ui"
)

// Options configure the bookshelf application.
type Options struct {
	ConfigPath string
	BackendURL string // overrides the config file and environment
	PrefsPath  string // empty uses default ~/.config/bookshelf/prefs.toml
}

// Session holds the shared objects the UI drives.
type Session struct {
	Client     *books.Client
	Store      *state.Store
	Board      *notify.Board
	Controller *detail.Controller
}

// NewSession wires a client, store, notification board and controller for
// the backend in cfg.
func NewSession(cfg config.Config) (*Session, error) {
	client, err := books.NewClient(cfg.BackendURL, books.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init books client: %w", err)
	}
	store := state.NewStore(client)
	board := notify.NewBoard()
	return &Session{
		Client:     client,
		Store:      store,
		Board:      board,
		Controller: detail.New(client, store, board),
	}, nil
}

// Close stops pending notification timers.
func (s *Session) Close() {
	s.Board.Stop()
}

// Run boots the bookshelf TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BackendURL); v != "" {
		cfg.BackendURL = v
	}

	closeLog, err := redirectLog(cfg.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := NewSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	log.Printf("bookshelf starting: backend=%s", session.Client.BaseURL())
	StartPoller(ctx, session.Store, cfg.RefreshInterval)

	err = ui.Run(ui.Options{
		Context:    ctx,
		Store:      session.Store,
		Controller: session.Controller,
		Board:      session.Board,
		CSRF:       session.Client.CSRF(),
		BackendURL: session.Client.BaseURL(),
		LogPath:    cfg.LogPath(),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
	})
	log.Printf("bookshelf stopped")
	return err
}

// redirectLog sends the standard logger to path, since the TUI owns the
// terminal. The returned func restores stderr and closes the file.
func redirectLog(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	prev := log.Writer()
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		_ = f.Close()
	}, nil
}
