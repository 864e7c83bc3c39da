package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bookshelf/internal/books"
)

// Column widths of the books table, excluding the title which takes the rest.
const (
	colNo     = 5
	colAuthor = 24
	colYear   = 12
)

// updateBooksTable keeps the selection on the same book across refreshes and
// clamps it when that book is gone.
func (m *Model) updateBooksTable() {
	list := m.collection.Books
	if len(list) == 0 {
		m.selectedRow = 0
		return
	}

	if m.selectedID != "" {
		for i, b := range list {
			if b.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}

	if m.selectedRow >= len(list) {
		m.selectedRow = len(list) - 1
	}
	m.selectedID = list[m.selectedRow].ID
}

// selectRow moves the cursor and remembers which book it is on.
func (m *Model) selectRow(i int) {
	if len(m.collection.Books) == 0 {
		return
	}
	m.selectedRow = min(max(i, 0), len(m.collection.Books)-1)
	m.selectedID = m.collection.Books[m.selectedRow].ID
}

// selectedBook returns the book under the cursor.
func (m Model) selectedBook() (books.Book, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.collection.Books) {
		return books.Book{}, false
	}
	return m.collection.Books[m.selectedRow], true
}

// pageSize is the number of table rows visible at once.
func (m Model) pageSize() int {
	// box borders + column header
	return max(m.contentHeight()-3, 1)
}

// renderBooks renders the books table in a titled box.
func (m Model) renderBooks() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.collection.Books) == 0 {
		var msg string
		switch {
		case m.collection.Loading && !m.collection.Loaded:
			msg = m.spinner.View() + " Loading books..."
		case m.collection.LastError != nil && !m.collection.Loaded:
			msg = "Could not load books. Press r to retry."
		default:
			msg = "No books yet. Press a to add one."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	title := fmt.Sprintf("Books (%d)", len(m.collection.Books))
	content := m.renderBooksTable(m.width-2, m.theme.FocusBg, height-2)
	return m.renderTitledBox(title, content, m.width, height, true)
}

// renderBooksTable renders the header row plus the visible window of rows.
func (m Model) renderBooksTable(width int, bgColor string, rows int) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	titleWidth := max(width-colNo-colAuthor-colYear-3, 10)

	header := bg.Render(padRight("No", colNo), styles.ColumnHeader) + bg.Space() +
		bg.Render(padRight("Title", titleWidth), styles.ColumnHeader) + bg.Space() +
		bg.Render(padRight("Author", colAuthor), styles.ColumnHeader) + bg.Space() +
		bg.Render(padRight("Publish Year", colYear), styles.ColumnHeader)
	lines := []string{lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).Render(header)}

	visible := max(rows-1, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(start+visible, len(m.collection.Books))

	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatBookRow(i, m.collection.Books[i], titleWidth, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}

	return strings.Join(lines, "\n")
}

// formatBookRow formats one table row. Selected rows use SelectionText for
// every cell so the text stays readable on the selection background.
func (m Model) formatBookRow(index int, b books.Book, titleWidth int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	var noStyle, titleStyle, authorStyle, yearStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		noStyle, titleStyle, authorStyle, yearStyle = selText, selText.Bold(true), selText, selText
	} else {
		styles := m.theme.Styles()
		noStyle = styles.MutedText
		titleStyle = styles.Text
		authorStyle = styles.AccentText
		yearStyle = styles.MutedText
	}

	no := padRight(fmt.Sprintf("%d", index+1), colNo)
	title := padRight(truncate(b.Title, titleWidth), titleWidth)
	author := padRight(truncate(b.Author, colAuthor), colAuthor)
	year := padRight(truncate(string(b.PublishYear), colYear), colYear)

	return bg.Render(no, noStyle) + bg.Space() +
		bg.Render(title, titleStyle) + bg.Space() +
		bg.Render(author, authorStyle) + bg.Space() +
		bg.Render(year, yearStyle)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}
