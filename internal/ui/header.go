package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/detail"
	"github.com/five82/bookshelf/internal/notify"
)

// savingText is shown while a create, edit or delete request is in flight.
const savingText = "Saving Book..."

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render("bookshelf", styles.Logo)}

	if host := backendHost(m.backendURL); host != "" && !compact {
		parts = append(parts, bg.Render(host, styles.MutedText))
	}

	parts = append(parts,
		bg.Render("Books:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.collection.Books)), styles.Text))

	if m.collection.Loading {
		parts = append(parts, bg.Render(m.spinner.View()+" refreshing", styles.WarningText))
	}

	switch {
	case !m.csrfReady:
		parts = append(parts, bg.Render("csrf …", styles.FaintText))
	case m.csrfErr != nil:
		parts = append(parts, bg.Render("csrf missing", styles.DangerText))
	default:
		parts = append(parts, bg.Render("csrf ok", styles.SuccessText))
	}

	if ts := formatTimestamp(m.collection.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	if err := m.collection.LastError; err != nil {
		label := classifyConnectionError(err)
		if m.collection.IsOffline() {
			label = "OFFLINE"
		}
		parts = append(parts, bg.Render(label, styles.DangerText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}

	since := now.Sub(at)
	out := at.Format("15:04:05")

	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of a refresh error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case errors.Is(err, books.ErrServer):
		return "SERVER ERROR"
	default:
		return "ERROR"
	}
}

func backendHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// renderCommandBar renders the command hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewActivity:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"l", "Books"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"a", "Add"},
			{"enter", "View"},
			{"e", "Edit"},
			{"d", "Delete"},
		}
		if m.dialog.CanResume {
			commands = append(commands, cmd{"E", "Resume edit"})
		}
		commands = append(commands, cmd{"r", "Refresh"}, cmd{"l", "Activity"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// toastLines renders the saving indicator and the raised notification flags,
// one per line.
func (m Model) toastLines() []string {
	var lines []string
	if m.dialog.Saving {
		lines = append(lines, m.theme.PendingStyle().Render(savingText))
	}
	for _, f := range m.flags {
		lines = append(lines, m.theme.ToastStyle(f.Kind.IsError()).Render(toastText(f)))
	}
	return lines
}

// toastText falls back to the fixed success texts when a flag carries no
// message.
func toastText(f notify.Flag) string {
	if msg := strings.TrimSpace(f.Message); msg != "" {
		return msg
	}
	switch f.Kind {
	case notify.SaveSucceeded:
		return detail.SavedMessage
	case notify.EditSucceeded:
		return detail.EditedMessage
	case notify.DeleteSucceeded:
		return detail.DeletedMessage
	case notify.SaveFailed:
		return detail.DefaultSaveError
	case notify.EditFailed:
		return detail.DefaultEditError
	case notify.DeleteFailed:
		return detail.DefaultDeleteError
	default:
		return f.Kind.String()
	}
}
