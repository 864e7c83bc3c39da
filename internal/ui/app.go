package ui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/detail"
	"github.com/five82/bookshelf/internal/notify"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBooks View = iota
	ViewActivity
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Controller *detail.Controller
	Board      *notify.Board
	CSRF       *books.CSRF
	BackendURL string
	LogPath    string
	Tick       time.Duration
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	controller *detail.Controller
	board      *notify.Board
	csrf       *books.CSRF
	backendURL string
	logPath    string
	prefsPath  string
	tick       time.Duration
	keys       keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Data state, refreshed from the shared objects on every tick
	collection state.Snapshot
	dialog     detail.Snapshot
	flags      []notify.Flag
	csrfReady  bool
	csrfErr    error

	// Books table
	selectedRow int
	selectedID  string

	// Edit and create form
	form formState

	// Activity view
	activity activityState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		controller:  opts.Controller,
		board:       opts.Board,
		csrf:        opts.CSRF,
		backendURL:  opts.BackendURL,
		logPath:     opts.LogPath,
		prefsPath:   opts.PrefsPath,
		tick:        tick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewBooks,
		spinner:     sp,
		form:        newFormState(),
		activity:    newActivityState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.csrf != nil {
		cmds = append(cmds, fetchCSRFCmd(m.ctx, m.csrf))
	}
	if m.store != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case tickMsg:
		m.sync()
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewActivity {
			cmds = append(cmds, readActivityCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		// Results are already applied to the shared objects and logged.
		m.sync()
		return m, nil

	case activityMsg:
		m.handleActivity(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if overlay, ok := m.renderDialog(); ok {
		return overlay
	}

	return m.renderMain()
}

// sync copies the latest state out of the shared objects and adjusts
// the table selection and form to match.
func (m *Model) sync() {
	if m.store != nil {
		m.collection = m.store.Snapshot()
		m.updateBooksTable()
	}
	if m.board != nil {
		m.flags = m.board.Snapshot()
	}
	if m.csrf != nil {
		m.csrfReady, m.csrfErr = m.csrf.Status()
	}
	if m.controller != nil {
		prev := m.dialog
		m.dialog = m.controller.Snapshot()
		m.syncForm(prev)
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.dialogOpen() {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Printf("save prefs failed: %v", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		if m.currentView == ViewActivity {
			m.currentView = ViewBooks
			return m, nil
		}
		m.currentView = ViewActivity
		return m, readActivityCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBooks
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.store == nil {
			return m, nil
		}
		return m, refreshCmd(m.ctx, m.store)
	}

	switch m.currentView {
	case ViewActivity:
		return m.handleActivityKey(msg)
	default:
		return m.handleBooksKey(msg)
	}
}

// handleBooksKey processes keyboard input for the books table.
func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		return m.beginCreate()
	case key.Matches(msg, m.keys.ResumeEdit):
		if m.controller == nil {
			return m, nil
		}
		if err := m.controller.ResumeEdit(); err != nil {
			return m, nil
		}
		m.sync()
		return m, nil
	}

	count := len(m.collection.Books)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.View):
		return m.open(detail.ModeView)
	case key.Matches(msg, m.keys.Edit):
		return m.open(detail.ModeEdit)
	case key.Matches(msg, m.keys.Delete):
		return m.open(detail.ModeDelete)
	case key.Matches(msg, m.keys.Down):
		m.selectRow(m.selectedRow + 1)
	case key.Matches(msg, m.keys.Up):
		m.selectRow(m.selectedRow - 1)
	case key.Matches(msg, m.keys.Top):
		m.selectRow(0)
	case key.Matches(msg, m.keys.Bottom):
		m.selectRow(count - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.selectRow(m.selectedRow + m.pageSize())
	case key.Matches(msg, m.keys.PageUp):
		m.selectRow(m.selectedRow - m.pageSize())
	}
	return m, nil
}

// open starts fetching the selected book for the given dialog.
func (m Model) open(mode detail.Mode) (tea.Model, tea.Cmd) {
	book, ok := m.selectedBook()
	if !ok || m.controller == nil {
		return m, nil
	}
	ctl := m.controller
	id := book.ID
	// Show the loading dialog right away; the next sync replaces this with
	// the controller's own phase.
	m.dialog = detail.Snapshot{Phase: detail.Loading, Mode: mode}
	return m, tea.Batch(
		runOp("open", func() error { return ctl.Open(m.ctx, id, mode) }),
		m.spinner.Tick,
	)
}

func (m Model) beginCreate() (tea.Model, tea.Cmd) {
	if m.controller == nil {
		return m, nil
	}
	if err := m.controller.BeginCreate(); err != nil {
		return m, nil
	}
	m.sync()
	return m, textinput.Blink
}

// renderMain renders the header, command bar, content and toasts.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	if toasts := m.toastLines(); len(toasts) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(toasts, "\n"))
	}

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewActivity:
		return m.renderActivity()
	default:
		return m.renderBooks()
	}
}

// contentHeight is the height left for the active view once the header,
// command bar and toasts are drawn.
func (m Model) contentHeight() int {
	return max(m.height-2-len(m.toastLines()), 3)
}

// Messages

type tickMsg time.Time

// opDoneMsg reports that a background operation finished.
type opDoneMsg struct {
	op  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func runOp(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn()}
	}
}

func refreshCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return runOp("refresh", func() error { return store.Refresh(ctx) })
}

func fetchCSRFCmd(ctx context.Context, csrf *books.CSRF) tea.Cmd {
	return runOp("csrf", func() error {
		csrf.Fetch(ctx)
		_, err := csrf.Status()
		return err
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
