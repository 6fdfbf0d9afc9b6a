package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webrig/webrig/internal/errdefs"
	"github.com/webrig/webrig/internal/log"
)

// Client is the shell's side of the daemon boundary. One connection carries
// request/response pairs and any broadcasts for subscribed topics. All
// methods are safe for concurrent use.
type Client struct {
	conn net.Conn

	writeMu sync.Mutex
	enc     *json.Encoder

	mu      sync.Mutex
	pending map[string]chan callResult
	subs    map[string]map[string]chan Event
	closed  bool

	done chan struct{}
}

type callResult struct {
	result json.RawMessage
	err    error
}

// envelope covers both response and event lines on the wire.
type envelope struct {
	ID      interface{}     `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Dial connects to the daemon socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errdefs.ErrDaemonUnreachable, socketPath)
	}

	c := &Client{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		pending: make(map[string]chan callResult),
		subs:    make(map[string]map[string]chan Event),
		done:    make(chan struct{}),
	}

	go c.readLoop()
	return c, nil
}

// Close tears down the connection. Pending calls fail with a transport
// error; subscription channels are closed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		var env envelope
		if err := json.Unmarshal(scanner.Bytes(), &env); err != nil {
			log.Debugf("ipc: dropping malformed line: %v", err)
			continue
		}

		if env.Event != "" {
			c.dispatchEvent(Event{Event: env.Event, Payload: env.Payload})
			continue
		}

		c.resolve(env)
	}

	// Connection gone: fail everything that is still waiting.
	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		ch <- callResult{err: errdefs.ErrDaemonUnreachable}
		delete(c.pending, id)
	}
	for _, topicSubs := range c.subs {
		for _, ch := range topicSubs {
			close(ch)
		}
	}
	c.subs = make(map[string]map[string]chan Event)
	c.mu.Unlock()

	close(c.done)
}

func (c *Client) dispatchEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.subs[ev.Event] {
		select {
		case ch <- ev:
		default:
			// Slow consumer, drop rather than stall the read loop.
		}
	}
}

func (c *Client) resolve(env envelope) {
	key := fmt.Sprintf("%v", env.ID)

	c.mu.Lock()
	ch, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()

	if !ok {
		log.Debugf("ipc: reply for unknown request id %v", env.ID)
		return
	}

	if env.Error != "" {
		ch <- callResult{err: fmt.Errorf("%s", env.Error)}
		return
	}
	ch <- callResult{result: env.Result}
}

// Call sends one request and waits for its single terminal reply.
func (c *Client) Call(ctx context.Context, method string, params map[string]interface{}) (json.RawMessage, error) {
	id := uuid.NewString()
	ch := make(chan callResult, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errdefs.ErrDaemonUnreachable
	}
	c.pending[id] = ch
	c.mu.Unlock()

	req := Request{ID: id, Method: method, Params: params}

	c.writeMu.Lock()
	err := c.enc.Encode(req)
	c.writeMu.Unlock()

	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("ipc write: %w", err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	case res := <-ch:
		return res.result, res.err
	}
}

// Subscribe registers for a broadcast topic. The returned release func must
// be called exactly once; it is safe to call after Close.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan Event, func(), error) {
	id := uuid.NewString()
	ch := make(chan Event, 16)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, errdefs.ErrDaemonUnreachable
	}
	first := len(c.subs[topic]) == 0
	if c.subs[topic] == nil {
		c.subs[topic] = make(map[string]chan Event)
	}
	c.subs[topic][id] = ch
	c.mu.Unlock()

	if first {
		if _, err := c.Call(ctx, MethodSubscribe, map[string]interface{}{"topic": topic}); err != nil {
			c.mu.Lock()
			delete(c.subs[topic], id)
			c.mu.Unlock()
			return nil, nil, err
		}
	}

	release := func() {
		c.mu.Lock()
		if _, ok := c.subs[topic][id]; !ok {
			c.mu.Unlock()
			return
		}
		delete(c.subs[topic], id)
		last := len(c.subs[topic]) == 0
		closed := c.closed
		c.mu.Unlock()

		close(ch)

		if last && !closed {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.Call(ctx, MethodUnsubscribe, map[string]interface{}{"topic": topic}); err != nil {
				log.Debugf("ipc: unsubscribe %s: %v", topic, err)
			}
		}
	}

	return ch, release, nil
}

// GetStatus issues the single-shot status query.
func (c *Client) GetStatus(ctx context.Context) (StatusReply, error) {
	raw, err := c.Call(ctx, MethodGetStatus, nil)
	if err != nil {
		return StatusReply{}, err
	}

	var reply StatusReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return StatusReply{}, fmt.Errorf("ipc decode status: %w", err)
	}
	return reply, nil
}

// Install issues the install command and waits for its terminal reply.
func (c *Client) Install(ctx context.Context) (InstallReply, error) {
	raw, err := c.Call(ctx, MethodInstall, nil)
	if err != nil {
		return InstallReply{}, err
	}

	var reply InstallReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return InstallReply{}, fmt.Errorf("ipc decode install: %w", err)
	}
	return reply, nil
}

// SubscribeStatus adapts the status-changed topic to typed snapshots.
func (c *Client) SubscribeStatus(ctx context.Context) (<-chan StatusEvent, func(), error) {
	raw, release, err := c.Subscribe(ctx, TopicStatusChanged)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan StatusEvent, 16)
	go func() {
		defer close(out)
		for ev := range raw {
			var status StatusEvent
			if err := json.Unmarshal(ev.Payload, &status); err != nil {
				log.Debugf("ipc: malformed status broadcast: %v", err)
				continue
			}
			out <- status
		}
	}()

	return out, release, nil
}

// SubscribeProgress adapts the install-progress topic to plain strings.
func (c *Client) SubscribeProgress(ctx context.Context) (<-chan string, func(), error) {
	raw, release, err := c.Subscribe(ctx, TopicInstallProgress)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		for ev := range raw {
			var line string
			if err := json.Unmarshal(ev.Payload, &line); err != nil {
				log.Debugf("ipc: malformed progress broadcast: %v", err)
				continue
			}
			out <- line
		}
	}()

	return out, release, nil
}
