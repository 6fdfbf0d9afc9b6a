package tui

import (
	"fmt"
	"strings"

	"github.com/webrig/webrig/internal/coordinator"
)

// renderInstallPanel draws the install prompt in whichever state the
// coordinator derived. Hidden states produce an empty string so the shell
// reclaims the space.
func (m Model) renderInstallPanel() string {
	if m.state.Render == coordinator.RenderHidden {
		return ""
	}

	var b strings.Builder

	if m.state.ShowError {
		b.WriteString(m.styles.ErrorBanner.Render("✗ " + m.state.ErrorMessage))
		b.WriteString("\n\n")
	}

	switch m.state.Render {
	case coordinator.RenderPrompt:
		b.WriteString(m.styles.Bold.Render("Automation runtime not installed"))
		b.WriteString("\n\n")
		b.WriteString(m.renderMissingComponents())
		b.WriteString("\n")
		b.WriteString(m.styles.HighlightButton.Render("Install"))
		b.WriteString(m.styles.Subtle.Render("  press 'i' to install, 'd' to dismiss"))

	case coordinator.RenderInstalling:
		step := m.state.Progress
		if step == "" {
			step = "preparing"
		}
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Normal.Render("Installing: "+step)))

	case coordinator.RenderComplete:
		b.WriteString(m.styles.Success.Render("✓ Automation runtime ready"))
	}

	return m.styles.Panel.Render(b.String())
}

func (m Model) renderMissingComponents() string {
	status := m.state.Status
	if status == nil {
		return m.styles.Subtle.Render("  • runtime status unknown") + "\n"
	}

	var b strings.Builder
	if !status.PlaywrightInstalled {
		b.WriteString(m.styles.Subtle.Render("  • Playwright driver missing"))
		b.WriteString("\n")
	}
	if !status.BrowserInstalled {
		b.WriteString(m.styles.Subtle.Render("  • browser binary missing"))
		b.WriteString("\n")
	}
	return b.String()
}
