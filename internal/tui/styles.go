package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type AppTheme struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Subtle     string
	Error      string
	Warning    string
	Success    string
	Background string
	Surface    string
}

func TealTheme() AppTheme {
	return AppTheme{
		Primary:    "#8fe3d4",
		Secondary:  "#2e5f57",
		Accent:     "#d2f5ee",
		Text:       "#e4e9e7",
		Subtle:     "#a5b5b1",
		Error:      "#ffb4ab",
		Warning:    "#eecf9a",
		Success:    "#8fe3d4",
		Background: "#121716",
		Surface:    "#1c2423",
	}
}

func NewStyles(theme AppTheme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true).
			MarginLeft(1).
			MarginBottom(1),

		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)),

		Bold: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Text)).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true),

		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true),

		SpinnerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)),

		HighlightButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0f2622")).
			Background(lipgloss.Color(theme.Primary)).
			Padding(0, 2).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Secondary)).
			Padding(0, 1),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2b0d0a")).
			Background(lipgloss.Color(theme.Error)).
			Padding(0, 1).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0f2622")).
			Background(lipgloss.Color(theme.Primary)).
			Padding(0, 1),
	}
}

type Styles struct {
	Title           lipgloss.Style
	Normal          lipgloss.Style
	Bold            lipgloss.Style
	Subtle          lipgloss.Style
	Warning         lipgloss.Style
	Error           lipgloss.Style
	Success         lipgloss.Style
	Key             lipgloss.Style
	SpinnerStyle    lipgloss.Style
	HighlightButton lipgloss.Style
	Panel           lipgloss.Style
	ErrorBanner     lipgloss.Style
	StatusBar       lipgloss.Style
}
