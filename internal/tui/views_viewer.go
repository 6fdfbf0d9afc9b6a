package tui

import "strings"

const (
	viewerCollapsedHeight = 3
	viewerExpandedHeight  = 12
)

func (m Model) resizeViewer() Model {
	width := m.width - 6
	if width < 20 {
		width = 72
	}
	m.viewer.Width = width
	if m.viewerExpanded {
		m.viewer.Height = viewerExpandedHeight
	} else {
		m.viewer.Height = viewerCollapsedHeight
	}
	m.viewer.GotoBottom()
	return m
}

// renderViewer shows the install output log. Collapsed it surfaces just the
// latest line; expanded it scrolls the retained ring.
func (m Model) renderViewer() string {
	var b strings.Builder

	label := "Output"
	if m.viewerExpanded {
		label = "Output (expanded)"
	}
	b.WriteString(m.styles.Bold.Render(label))
	b.WriteString(m.styles.Subtle.Render("  press 'o' to toggle"))
	b.WriteString("\n")

	if len(m.progressLogs) == 0 {
		b.WriteString(m.styles.Subtle.Render("  no output yet"))
		return b.String()
	}

	if !m.viewerExpanded {
		last := m.progressLogs[len(m.progressLogs)-1]
		b.WriteString(m.styles.Subtle.Render("  " + last))
		return b.String()
	}

	b.WriteString(m.styles.Panel.Render(m.viewer.View()))
	return b.String()
}
