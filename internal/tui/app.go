package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/webrig/webrig/internal/coordinator"
)

// maxProgressLines bounds the viewer's log ring.
const maxProgressLines = 50

type Model struct {
	version string
	coord   *coordinator.Coordinator
	ctx     context.Context

	styles Styles
	theme  AppTheme

	state coordinator.Snapshot

	spinner spinner.Model
	editor  textarea.Model
	viewer  viewport.Model

	focus          FocusArea
	viewerExpanded bool

	// note is the committed editor content; the textarea holds the draft.
	note string

	progressLogs []string
	lastProgress string

	installPending bool

	width  int
	height int
}

func NewModel(version string, coord *coordinator.Coordinator) Model {
	theme := TealTheme()
	styles := NewStyles(theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	ed := textarea.New()
	ed.Placeholder = "Session notes..."
	ed.SetHeight(6)

	vp := viewport.New(72, 3)

	return Model{
		version: version,
		coord:   coord,
		ctx:     context.Background(),
		styles:  styles,
		theme:   theme,
		state:   coord.Snapshot(),
		spinner: sp,
		editor:  ed,
		viewer:  vp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForChanges())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(min(m.width-6, 76))
		m = m.resizeViewer()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateChangedMsg:
		m = m.refreshState()
		return m, m.listenForChanges()

	case installDoneMsg:
		m.installPending = false
		return m, nil

	case tea.KeyMsg:
		if m.focus == FocusEditor {
			return m.updateEditor(msg)
		}
		return m.updateShell(msg)
	}

	return m, nil
}

func (m Model) updateShell(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "i":
		if m.installPending {
			return m, nil
		}
		m.installPending = true
		return m, m.requestInstall()
	case "d":
		m.coord.Dismiss()
		return m, nil
	case "e":
		return m.openEditor()
	case "o":
		m.viewerExpanded = !m.viewerExpanded
		m = m.resizeViewer()
		return m, nil
	}
	return m, nil
}

// refreshState pulls a fresh coordinator snapshot and folds any new progress
// line into the log ring.
func (m Model) refreshState() Model {
	m.state = m.coord.Snapshot()
	return m.appendProgress(m.state.Progress)
}

// appendProgress folds a progress line into the ring, skipping repeats of
// the line already at the tail.
func (m Model) appendProgress(line string) Model {
	if line == "" || line == m.lastProgress {
		return m
	}

	m.lastProgress = line
	m.progressLogs = append(m.progressLogs, line)
	if len(m.progressLogs) > maxProgressLines {
		m.progressLogs = m.progressLogs[len(m.progressLogs)-maxProgressLines:]
	}
	m.viewer.SetContent(strings.Join(m.progressLogs, "\n"))
	m.viewer.GotoBottom()
	return m
}

func (m Model) requestInstall() tea.Cmd {
	coord := m.coord
	ctx := m.ctx
	return func() tea.Msg {
		coord.RequestInstall(ctx)
		return installDoneMsg{}
	}
}

func (m Model) listenForChanges() tea.Cmd {
	changes := m.coord.Changes()
	return func() tea.Msg {
		<-changes
		return stateChangedMsg{}
	}
}

func (m Model) View() string {
	if m.focus == FocusEditor {
		return m.viewEditor()
	}

	var b strings.Builder

	b.WriteString(m.renderBanner())
	b.WriteString("\n")

	if panel := m.renderInstallPanel(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderNotes())
	b.WriteString("\n")

	b.WriteString(m.renderViewer())
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderNotes() string {
	title := m.styles.Bold.Render("Notes")
	if m.note == "" {
		hint := m.styles.Subtle.Render("(empty, press 'e' to edit)")
		return title + " " + hint + "\n"
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, line := range strings.Split(m.note, "\n") {
		b.WriteString(m.styles.Normal.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	help := []string{"q quit", "e notes", "o output"}
	switch m.state.Render {
	case coordinator.RenderPrompt:
		help = append([]string{"i install", "d dismiss"}, help...)
	case coordinator.RenderComplete:
		help = append([]string{"d dismiss"}, help...)
	}
	if m.state.ShowError {
		help = append([]string{"i retry"}, help...)
	}
	return m.styles.StatusBar.Render("webrig " + m.version + "  │  " + strings.Join(help, " · "))
}
