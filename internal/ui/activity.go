package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/logtail"
)

// activityLimit caps how many log lines the activity view keeps.
const activityLimit = 200

// activityState holds the activity view's scroll position and lines.
type activityState struct {
	viewport viewport.Model
	lines    []string
	follow   bool
	err      error
}

func newActivityState() activityState {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()
	return activityState{viewport: vp, follow: true}
}

// activityMsg carries the lines read from the log file.
type activityMsg struct {
	lines []string
	err   error
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, activityLimit)
		return activityMsg{lines: lines, err: err}
	}
}

// resizeActivity fits the viewport inside the activity box.
func (m *Model) resizeActivity() {
	m.activity.viewport.Width = max(m.width-2, 0)
	m.activity.viewport.Height = max(m.contentHeight()-2, 0)
}

// handleActivity stores freshly read lines and re-renders them when they
// changed.
func (m *Model) handleActivity(msg activityMsg) {
	m.activity.err = msg.err
	if msg.err != nil {
		return
	}
	if equalLines(m.activity.lines, msg.lines) && m.activity.viewport.TotalLineCount() > 0 {
		return
	}
	m.activity.lines = msg.lines
	m.resizeActivity()
	m.activity.viewport.SetContent(m.renderActivityLines())
	if m.activity.follow {
		m.activity.viewport.GotoBottom()
	}
}

// renderActivityLines colors each line by its inferred level.
func (m Model) renderActivityLines() string {
	styles := m.theme.Styles()
	if len(m.activity.lines) == 0 {
		return styles.FaintText.Render("No activity yet.")
	}

	out := make([]string, 0, len(m.activity.lines))
	for _, line := range m.activity.lines {
		entry := logtail.Parse(line)
		var msgStyle lipgloss.Style
		switch entry.Level {
		case logtail.LevelError:
			msgStyle = styles.DangerText
		case logtail.LevelWarn:
			msgStyle = styles.WarningText
		default:
			msgStyle = styles.Text
		}
		var b strings.Builder
		if entry.Timestamp != "" {
			b.WriteString(styles.FaintText.Render(entry.Timestamp))
			b.WriteString(" ")
		}
		b.WriteString(msgStyle.Render(entry.Message))
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// handleActivityKey scrolls the activity view. Scrolling up stops following
// new lines; jumping to the bottom resumes it.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.activity.viewport
	switch {
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
		m.activity.follow = false
	case key.Matches(msg, m.keys.PageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.HalfPageUp()
		m.activity.follow = false
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
		m.activity.follow = false
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
		m.activity.follow = true
	}
	if vp.AtBottom() {
		m.activity.follow = true
	}
	return m, nil
}

// renderActivity renders the log tail in a titled box.
func (m Model) renderActivity() string {
	height := m.contentHeight()
	title := "Activity"
	if !m.activity.follow {
		title = "Activity (paused)"
	}

	content := m.activity.viewport.View()
	if m.activity.err != nil {
		content = m.theme.Styles().DangerText.Render("Could not read log: " + m.activity.err.Error())
	} else if len(m.activity.lines) == 0 {
		content = m.renderActivityLines()
	}
	return m.renderTitledBox(title, content, m.width, height, true)
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
