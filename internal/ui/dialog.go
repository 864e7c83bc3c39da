package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bookshelf/internal/books"
	"github.com/five82/bookshelf/internal/detail"
)

// Form field indexes.
const (
	fieldTitle = iota
	fieldAuthor
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title:        ",
	"Author:       ",
	"Publish Year: ",
}

// formState holds the text inputs of the edit and create dialogs.
type formState struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newFormState() formState {
	var f formState
	placeholders := [fieldCount]string{"e.g. Dune", "e.g. Frank Herbert", "e.g. 1965"}
	limits := [fieldCount]int{200, 120, 8}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 36
		f.inputs[i] = ti
	}
	return f
}

// load fills the inputs from a draft and focuses the first field.
func (f *formState) load(d books.Draft) {
	f.inputs[fieldTitle].SetValue(d.Title)
	f.inputs[fieldAuthor].SetValue(d.Author)
	f.inputs[fieldYear].SetValue(string(d.PublishYear))
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.setFocus(fieldTitle)
}

func (f *formState) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f formState) draft() books.Draft {
	return books.Draft{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Author:      strings.TrimSpace(f.inputs[fieldAuthor].Value()),
		PublishYear: books.Year(strings.TrimSpace(f.inputs[fieldYear].Value())),
	}
}

// syncForm reloads the inputs when a form dialog has just opened.
func (m *Model) syncForm(prev detail.Snapshot) {
	phase := m.dialog.Phase
	if phase != detail.Editing && phase != detail.Creating {
		return
	}
	if prev.Phase == phase && prev.Book.ID == m.dialog.Book.ID {
		return
	}
	m.form.load(m.dialog.Draft)
}

// dialogOpen reports whether a book dialog takes the keyboard.
func (m Model) dialogOpen() bool {
	return m.dialog.Phase != detail.Idle
}

// handleDialogKey routes keys to the open dialog.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.controller == nil {
		return m, nil
	}
	ctl := m.controller

	switch m.dialog.Phase {
	case detail.Loading, detail.Failed:
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Confirm) {
			ctl.Close()
			m.sync()
		}
		return m, nil

	case detail.Loaded:
		switch {
		case key.Matches(msg, m.keys.Edit):
			_ = ctl.BeginEdit()
			m.sync()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Delete):
			_ = ctl.BeginDelete()
			m.sync()
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm):
			ctl.Close()
			m.sync()
		}
		return m, nil

	case detail.ConfirmingDelete:
		if m.dialog.Saving {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Yes), key.Matches(msg, m.keys.Confirm):
			m.dialog.Saving = true
			return m, runOp("delete", func() error { return ctl.ConfirmDelete(m.ctx) })
		case key.Matches(msg, m.keys.Escape), msg.String() == "n":
			ctl.Close()
			m.sync()
		}
		return m, nil

	case detail.Editing, detail.Creating:
		return m.handleFormKey(msg)
	}

	return m, nil
}

// handleFormKey handles keys while the edit or create form is shown.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.controller
	if m.dialog.Saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		ctl.Close()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.form.setFocus(m.form.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.setFocus(m.form.focus - 1)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if err := ctl.SetDraft(m.form.draft()); err != nil {
			return m, nil
		}
		m.dialog.Saving = true
		if m.dialog.Phase == detail.Creating {
			m.form.load(books.Draft{})
			return m, runOp("create", func() error { return ctl.SubmitCreate(m.ctx) })
		}
		return m, runOp("edit", func() error { return ctl.SubmitEdit(m.ctx) })
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// renderDialog renders the overlay for the controller's phase, if any.
func (m Model) renderDialog() (string, bool) {
	switch m.dialog.Phase {
	case detail.Loading:
		return m.renderLoadingDialog(), true
	case detail.Failed:
		return m.renderFailedDialog(), true
	case detail.Loaded:
		return m.renderViewDialog(), true
	case detail.Editing:
		return m.renderFormDialog("Edit Book"), true
	case detail.Creating:
		return m.renderFormDialog("Add Book"), true
	case detail.ConfirmingDelete:
		return m.renderDeleteDialog(), true
	default:
		return "", false
	}
}

func (m Model) dialogTitle(title string) string {
	styles := m.theme.Styles()
	return styles.Text.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", 40)) + "\n\n"
}

func (m Model) renderLoadingDialog() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.dialogTitle("Book"))
	b.WriteString(styles.WarningText.Render(m.spinner.View() + " Loading book..."))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Esc: Cancel"))
	return m.placeModal(b.String(), 50, m.theme.Accent)
}

func (m Model) renderFailedDialog() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.dialogTitle("Book"))
	b.WriteString(styles.DangerText.Render("Could not load the book."))
	b.WriteString("\n")
	reason := books.Message(m.dialog.Err)
	if reason == "" && m.dialog.Err != nil {
		reason = m.dialog.Err.Error()
	}
	if reason != "" {
		b.WriteString(styles.MutedText.Render(truncate(reason, 120)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter/Esc: Close"))
	return m.placeModal(b.String(), 56, m.theme.Danger)
}

func (m Model) renderViewDialog() string {
	styles := m.theme.Styles()
	book := m.dialog.Book

	rows := []struct{ label, value string }{
		{"Title", displayOr(book.Title, "(untitled)")},
		{"Author", displayOr(book.Author, "(unknown)")},
		{"Publish Year", displayOr(string(book.PublishYear), "(unknown)")},
		{"Created", formatBookDate(book.CreatedAt)},
		{"Updated", formatBookDate(book.UpdatedAt)},
		{"ID", book.ID},
	}

	var b strings.Builder
	b.WriteString(m.dialogTitle("Book Details"))
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(padRight(r.label+":", 14)))
		b.WriteString(styles.Text.Render(r.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("e: Edit  •  d: Delete  •  Esc: Close"))
	return m.placeModal(b.String(), 60, m.theme.Accent)
}

func (m Model) renderFormDialog(title string) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.dialogTitle(title))
	for i := range m.form.inputs {
		label := fieldLabels[i]
		if i == m.form.focus {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n\n")
	}
	if m.dialog.Saving {
		b.WriteString(styles.WarningText.Render(savingText))
	} else {
		b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))
	}
	return m.placeModal(b.String(), 60, m.theme.Accent)
}

func (m Model) renderDeleteDialog() string {
	styles := m.theme.Styles()
	book := m.dialog.Book

	var b strings.Builder
	b.WriteString(m.dialogTitle("Delete Book"))
	b.WriteString(styles.Text.Render("Are you sure you want to delete this book?"))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Bold(true).Render(displayOr(book.Title, "(untitled)")))
	if book.Author != "" {
		b.WriteString(styles.MutedText.Render(" by " + book.Author))
	}
	b.WriteString("\n\n")
	if m.dialog.Saving {
		b.WriteString(styles.WarningText.Render(savingText))
	} else {
		b.WriteString(styles.FaintText.Render("y/Enter: Delete  •  n/Esc: Cancel"))
	}
	return m.placeModal(b.String(), 56, m.theme.Danger)
}
