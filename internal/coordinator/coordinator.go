package coordinator

import (
	"context"
	"sync"

	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
)

// Client is the asynchronous boundary the coordinator needs from the
// background installer. *ipc.Client satisfies it; tests substitute fakes.
type Client interface {
	GetStatus(ctx context.Context) (ipc.StatusReply, error)
	Install(ctx context.Context) (ipc.InstallReply, error)
	SubscribeStatus(ctx context.Context) (<-chan ipc.StatusEvent, func(), error)
	SubscribeProgress(ctx context.Context) (<-chan string, func(), error)
}

// Coordinator owns the install panel's state for one activation. It issues
// requests, consumes the two broadcast channels, and reconciles everything
// into the machine. One instance serves one activation; deactivation discards
// it along with its subscriptions.
type Coordinator struct {
	client Client

	mu      sync.Mutex
	machine *Machine

	changes chan struct{}
}

func New(client Client) *Coordinator {
	return &Coordinator{
		client:  client,
		machine: NewMachine(),
		changes: make(chan struct{}, 1),
	}
}

// Changes signals after every state mutation, coalesced. The TUI drains it
// to know when to re-render.
func (c *Coordinator) Changes() <-chan struct{} {
	return c.changes
}

func (c *Coordinator) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Activate issues the initial status query and subscribes to both broadcast
// topics. The returned teardown releases the subscriptions and must be
// invoked exactly once on deactivation; it is guarded against double calls.
// Activation failure of either subscription releases whatever was acquired.
func (c *Coordinator) Activate(ctx context.Context) (func(), error) {
	statusCh, releaseStatus, err := c.client.SubscribeStatus(ctx)
	if err != nil {
		return nil, err
	}

	progressCh, releaseProgress, err := c.client.SubscribeProgress(ctx)
	if err != nil {
		releaseStatus()
		return nil, err
	}

	go func() {
		for ev := range statusCh {
			c.mu.Lock()
			c.machine.ApplyBroadcast(statusFromEvent(ev))
			c.mu.Unlock()
			c.notify()
		}
	}()

	go func() {
		for line := range progressCh {
			c.mu.Lock()
			c.machine.ApplyProgress(line)
			c.mu.Unlock()
			c.notify()
		}
	}()

	// The initial query runs after the subscriptions are in place so no
	// broadcast can slip between the two.
	go c.QueryStatus(ctx)

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			releaseStatus()
			releaseProgress()
		})
	}
	return teardown, nil
}

// QueryStatus sends the status request and applies its single reply. A reply
// indicating failure or a transport fault leaves state untouched: a status
// check fails silent, never loud.
func (c *Coordinator) QueryStatus(ctx context.Context) {
	reply, err := c.client.GetStatus(ctx)
	if err != nil {
		log.Debugf("coordinator: status query failed: %v", err)
		return
	}
	if !reply.Success {
		log.Debugf("coordinator: status query rejected: %s", reply.Error)
		return
	}

	c.mu.Lock()
	c.machine.ApplyReply(statusFromReply(reply))
	c.mu.Unlock()
	c.notify()
}

// RequestInstall sends the install command and blocks until its terminal
// reply. It no-ops when an attempt is already in flight or the snapshot
// reports installed. A failure reply or transport fault surfaces the reason;
// a success reply changes nothing; the authoritative completion arrives via
// the status broadcast.
func (c *Coordinator) RequestInstall(ctx context.Context) {
	c.mu.Lock()
	started := c.machine.BeginInstall()
	c.mu.Unlock()
	if !started {
		return
	}
	c.notify()

	reply, err := c.client.Install(ctx)

	c.mu.Lock()
	switch {
	case err != nil:
		c.machine.FailInstall(err.Error())
	case !reply.Success:
		c.machine.FailInstall(reply.Error)
	}
	c.mu.Unlock()
	c.notify()
}

// Dismiss hides the panel until the coordinator is replaced by a fresh
// activation. Pure and idempotent.
func (c *Coordinator) Dismiss() {
	c.mu.Lock()
	c.machine.Dismiss()
	c.mu.Unlock()
	c.notify()
}

// Snapshot is a read-only copy of everything the UI renders from.
type Snapshot struct {
	Render       RenderState
	ShowError    bool
	ErrorMessage string
	Progress     string
	Installing   bool
	Status       *Status
	Phase        Phase
	Dismissed    bool
}

// Snapshot returns the current derived state under one lock acquisition.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Render:       c.machine.Render(),
		ShowError:    c.machine.ShowError(),
		ErrorMessage: c.machine.ErrorMessage(),
		Progress:     c.machine.Progress(),
		Installing:   c.machine.Installing(),
		Status:       c.machine.Status(),
		Phase:        c.machine.Phase(),
		Dismissed:    c.machine.Dismissed(),
	}
}
