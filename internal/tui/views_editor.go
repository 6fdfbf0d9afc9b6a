package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// openEditor raises the notes overlay seeded with the committed note.
func (m Model) openEditor() (tea.Model, tea.Cmd) {
	m.focus = FocusEditor
	m.editor.SetValue(m.note)
	m.editor.Focus()
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Discard the draft.
		m.focus = FocusShell
		m.editor.Blur()
		return m, nil
	case "ctrl+s":
		m.note = m.editor.Value()
		m.focus = FocusShell
		m.editor.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) viewEditor() string {
	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	b.WriteString(m.styles.Title.Render("Session Notes"))
	b.WriteString("\n")

	b.WriteString(m.styles.Panel.Render(m.editor.View()))
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatusBar.Render("ctrl+s save · esc discard"))

	return b.String()
}
