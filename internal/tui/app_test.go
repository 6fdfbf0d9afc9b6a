package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webrig/webrig/internal/coordinator"
	"github.com/webrig/webrig/internal/ipc"
)

type stubClient struct {
	status       ipc.StatusReply
	installReply ipc.InstallReply
	installCalls atomic.Int32
}

func (c *stubClient) GetStatus(ctx context.Context) (ipc.StatusReply, error) {
	return c.status, nil
}

func (c *stubClient) Install(ctx context.Context) (ipc.InstallReply, error) {
	c.installCalls.Add(1)
	return c.installReply, nil
}

func (c *stubClient) SubscribeStatus(ctx context.Context) (<-chan ipc.StatusEvent, func(), error) {
	return make(chan ipc.StatusEvent), func() {}, nil
}

func (c *stubClient) SubscribeProgress(ctx context.Context) (<-chan string, func(), error) {
	return make(chan string), func() {}, nil
}

func promptModel(t *testing.T) (Model, *stubClient) {
	t.Helper()
	client := &stubClient{
		status:       ipc.StatusReply{Success: true, NeedsInstall: true},
		installReply: ipc.InstallReply{Success: true},
	}
	coord := coordinator.New(client)
	coord.QueryStatus(context.Background())

	m := NewModel("test", coord)
	return m.refreshState(), client
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPromptPanelVisible(t *testing.T) {
	m, _ := promptModel(t)

	panel := m.renderInstallPanel()
	assert.Contains(t, panel, "Automation runtime not installed")
	assert.Contains(t, panel, "Playwright driver missing")
	assert.Contains(t, m.renderStatusBar(), "i install")
}

func TestPanelHiddenWhenInstalled(t *testing.T) {
	client := &stubClient{status: ipc.StatusReply{Success: true}}
	coord := coordinator.New(client)
	coord.QueryStatus(context.Background())

	m := NewModel("test", coord).refreshState()
	assert.Empty(t, m.renderInstallPanel())
}

func TestInstallKeyRunsRequest(t *testing.T) {
	m, client := promptModel(t)

	next, cmd := m.Update(key("i"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.installPending)

	msg := cmd()
	assert.IsType(t, installDoneMsg{}, msg)
	assert.Equal(t, int32(1), client.installCalls.Load())

	// A second press while the round trip is pending is ignored.
	_, cmd = m.Update(key("i"))
	assert.Nil(t, cmd)

	next, _ = m.Update(msg)
	m = next.(Model)
	assert.False(t, m.installPending)
}

func TestDismissKeyHidesPanel(t *testing.T) {
	m, _ := promptModel(t)
	require.NotEmpty(t, m.renderInstallPanel())

	next, _ := m.Update(key("d"))
	m = next.(Model).refreshState()

	assert.Empty(t, m.renderInstallPanel())
}

func TestEditorCommitAndDiscard(t *testing.T) {
	m, _ := promptModel(t)

	next, _ := m.Update(key("e"))
	m = next.(Model)
	assert.Equal(t, FocusEditor, m.focus)

	next, _ = m.Update(key("hello"))
	m = next.(Model)
	next, _ = m.Update(key("ctrl+s"))
	m = next.(Model)
	assert.Equal(t, FocusShell, m.focus)
	assert.Equal(t, "hello", m.note)

	// Reopen, type more, discard: the committed note survives.
	next, _ = m.Update(key("e"))
	m = next.(Model)
	next, _ = m.Update(key(" world"))
	m = next.(Model)
	next, _ = m.Update(key("esc"))
	m = next.(Model)
	assert.Equal(t, FocusShell, m.focus)
	assert.Equal(t, "hello", m.note)
}

func TestViewerToggle(t *testing.T) {
	m, _ := promptModel(t)
	assert.False(t, m.viewerExpanded)

	next, _ := m.Update(key("o"))
	m = next.(Model)
	assert.True(t, m.viewerExpanded)

	next, _ = m.Update(key("o"))
	m = next.(Model)
	assert.False(t, m.viewerExpanded)
}

func TestProgressRingCapped(t *testing.T) {
	m, _ := promptModel(t)

	for i := 0; i < maxProgressLines+20; i++ {
		m = m.appendProgress(fmt.Sprintf("step %d", i))
	}

	assert.Len(t, m.progressLogs, maxProgressLines)
	assert.Equal(t, fmt.Sprintf("step %d", maxProgressLines+19), m.progressLogs[len(m.progressLogs)-1])
}

func TestProgressRingSkipsRepeats(t *testing.T) {
	m, _ := promptModel(t)

	m = m.appendProgress("downloading")
	m = m.appendProgress("downloading")
	m = m.appendProgress("")

	assert.Equal(t, []string{"downloading"}, m.progressLogs)
}
