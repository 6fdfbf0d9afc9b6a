package tui

import "github.com/charmbracelet/lipgloss"

func (m Model) renderBanner() string {
	logo := `
██╗    ██╗███████╗██████╗ ██████╗ ██╗ ██████╗
██║    ██║██╔════╝██╔══██╗██╔══██╗██║██╔════╝
██║ █╗ ██║█████╗  ██████╔╝██████╔╝██║██║  ███╗
██║███╗██║██╔══╝  ██╔══██╗██╔══██╗██║██║   ██║
╚███╔███╔╝███████╗██████╔╝██║  ██║██║╚██████╔╝
 ╚══╝╚══╝ ╚══════╝╚═════╝ ╚═╝  ╚═╝╚═╝ ╚═════╝ `

	theme := TealTheme()
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Bold(true).
		Align(lipgloss.Center).
		MarginBottom(1)

	return style.Render(logo)
}
