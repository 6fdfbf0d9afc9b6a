package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webrig/webrig/internal/ipc"
)

// fakeClient scripts the daemon side of the boundary.
type fakeClient struct {
	statusReply ipc.StatusReply
	statusErr   error

	installReply ipc.InstallReply
	installErr   error

	statusCh   chan ipc.StatusEvent
	progressCh chan string

	statusReleased   bool
	progressReleased bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		statusCh:   make(chan ipc.StatusEvent, 8),
		progressCh: make(chan string, 8),
	}
}

func (f *fakeClient) GetStatus(ctx context.Context) (ipc.StatusReply, error) {
	return f.statusReply, f.statusErr
}

func (f *fakeClient) Install(ctx context.Context) (ipc.InstallReply, error) {
	return f.installReply, f.installErr
}

func (f *fakeClient) SubscribeStatus(ctx context.Context) (<-chan ipc.StatusEvent, func(), error) {
	return f.statusCh, func() { f.statusReleased = true }, nil
}

func (f *fakeClient) SubscribeProgress(ctx context.Context) (<-chan string, func(), error) {
	return f.progressCh, func() { f.progressReleased = true }, nil
}

// waitFor drains change notifications until cond holds or the deadline hits.
func waitFor(t *testing.T, c *Coordinator, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap := c.Snapshot()
		if cond(snap) {
			return snap
		}
		select {
		case <-c.Changes():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("condition not reached; snapshot: %+v", c.Snapshot())
		}
	}
}

func TestActivateQueriesAndAppliesStatus(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}

	c := New(client)
	teardown, err := c.Activate(context.Background())
	require.NoError(t, err)
	defer teardown()

	snap := waitFor(t, c, func(s Snapshot) bool { return s.Status != nil })
	assert.Equal(t, RenderPrompt, snap.Render)
}

func TestQueryFailureStaysSilent(t *testing.T) {
	client := newFakeClient()
	client.statusErr = errors.New("dial: connection refused")

	c := New(client)
	c.QueryStatus(context.Background())

	snap := c.Snapshot()
	assert.Nil(t, snap.Status)
	assert.Equal(t, RenderHidden, snap.Render)
	assert.Empty(t, snap.ErrorMessage, "status failures are never surfaced")
}

func TestQueryRejectedReplyStaysSilent(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: false, Error: "daemon busy"}

	c := New(client)
	c.QueryStatus(context.Background())

	assert.Nil(t, c.Snapshot().Status)
}

func TestBroadcastsFlowIntoMachine(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}

	c := New(client)
	teardown, err := c.Activate(context.Background())
	require.NoError(t, err)
	defer teardown()

	waitFor(t, c, func(s Snapshot) bool { return s.Render == RenderPrompt })

	client.progressCh <- "downloading browser"
	waitFor(t, c, func(s Snapshot) bool { return s.Progress == "downloading browser" })

	client.statusCh <- ipc.StatusEvent{Installed: true, PlaywrightInstalled: true, BrowserInstalled: true}
	snap := waitFor(t, c, func(s Snapshot) bool { return s.Render == RenderHidden })
	assert.Equal(t, "downloading browser", snap.Progress)
}

func TestRequestInstallFailureReply(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}
	client.installReply = ipc.InstallReply{Success: false, Error: "network timeout"}

	c := New(client)
	c.QueryStatus(context.Background())
	c.RequestInstall(context.Background())

	snap := c.Snapshot()
	assert.False(t, snap.Installing)
	assert.Equal(t, "network timeout", snap.ErrorMessage)
	assert.True(t, snap.Status.NeedsInstall, "status untouched by the failed install")
}

func TestRequestInstallTransportFault(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}
	client.installErr = errors.New("broken pipe")

	c := New(client)
	c.QueryStatus(context.Background())
	c.RequestInstall(context.Background())

	snap := c.Snapshot()
	assert.False(t, snap.Installing)
	assert.Equal(t, "broken pipe", snap.ErrorMessage)
}

func TestRequestInstallSuccessAwaitsBroadcast(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}
	client.installReply = ipc.InstallReply{Success: true}

	c := New(client)
	teardown, err := c.Activate(context.Background())
	require.NoError(t, err)
	defer teardown()

	waitFor(t, c, func(s Snapshot) bool { return s.Render == RenderPrompt })

	c.RequestInstall(context.Background())
	snap := c.Snapshot()
	assert.True(t, snap.Installing, "a bare success reply does not clear installing")

	client.statusCh <- ipc.StatusEvent{Installed: true, PlaywrightInstalled: true, BrowserInstalled: true}
	snap = waitFor(t, c, func(s Snapshot) bool { return s.Render == RenderComplete })
	assert.False(t, snap.Installing)
}

func TestRequestInstallNoOpWhileInstalled(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, PlaywrightInstalled: true, BrowserInstalled: true}
	client.installErr = errors.New("should never be called")

	c := New(client)
	c.QueryStatus(context.Background())
	c.RequestInstall(context.Background())

	assert.Empty(t, c.Snapshot().ErrorMessage)
}

func TestTeardownReleasesBothOnce(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}

	c := New(client)
	teardown, err := c.Activate(context.Background())
	require.NoError(t, err)

	teardown()
	teardown() // second call is a no-op

	assert.True(t, client.statusReleased)
	assert.True(t, client.progressReleased)
}

func TestDismissIsStickyPerActivation(t *testing.T) {
	client := newFakeClient()
	client.statusReply = ipc.StatusReply{Success: true, NeedsInstall: true}

	c := New(client)
	c.QueryStatus(context.Background())
	c.Dismiss()
	assert.Equal(t, RenderHidden, c.Snapshot().Render)

	// Reactivation means a fresh coordinator.
	c2 := New(client)
	c2.QueryStatus(context.Background())
	assert.Equal(t, RenderPrompt, c2.Snapshot().Render)
}
