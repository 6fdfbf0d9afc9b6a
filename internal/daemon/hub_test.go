package daemon

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webrig/webrig/internal/ipc"
)

// pipeSession returns a session plus the client end of its connection.
func pipeSession(t *testing.T) (*session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return newSession(server), client
}

func TestHubTopics(t *testing.T) {
	h := NewHub()

	assert.True(t, h.ValidTopic(ipc.TopicStatusChanged))
	assert.True(t, h.ValidTopic(ipc.TopicInstallProgress))
	assert.False(t, h.ValidTopic("status"))
	assert.ElementsMatch(t, []string{ipc.TopicStatusChanged, ipc.TopicInstallProgress}, h.Topics())
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	h := NewHub()
	s, _ := pipeSession(t)

	h.Subscribe(ipc.TopicStatusChanged, s)
	assert.Equal(t, 1, h.SubscriberCount(ipc.TopicStatusChanged))

	// Subscribing twice is idempotent per session.
	h.Subscribe(ipc.TopicStatusChanged, s)
	assert.Equal(t, 1, h.SubscriberCount(ipc.TopicStatusChanged))

	h.Unsubscribe(ipc.TopicStatusChanged, s)
	assert.Equal(t, 0, h.SubscriberCount(ipc.TopicStatusChanged))

	// Unknown topics are ignored.
	h.Subscribe("nope", s)
	assert.False(t, h.ValidTopic("nope"))
}

func TestHubDropRemovesFromAllTopics(t *testing.T) {
	h := NewHub()
	s, _ := pipeSession(t)

	h.Subscribe(ipc.TopicStatusChanged, s)
	h.Subscribe(ipc.TopicInstallProgress, s)

	h.Drop(s)
	assert.Equal(t, 0, h.SubscriberCount(ipc.TopicStatusChanged))
	assert.Equal(t, 0, h.SubscriberCount(ipc.TopicInstallProgress))
}

func TestHubBroadcastDelivers(t *testing.T) {
	h := NewHub()
	s, client := pipeSession(t)
	h.Subscribe(ipc.TopicInstallProgress, s)

	lines := make(chan ipc.Event, 1)
	go func() {
		scanner := bufio.NewScanner(client)
		if scanner.Scan() {
			var ev ipc.Event
			if err := json.Unmarshal(scanner.Bytes(), &ev); err == nil {
				lines <- ev
			}
		}
	}()

	h.Broadcast(ipc.TopicInstallProgress, "downloading chromium")

	ev := <-lines
	assert.Equal(t, ipc.TopicInstallProgress, ev.Event)

	var step string
	require.NoError(t, json.Unmarshal(ev.Payload, &step))
	assert.Equal(t, "downloading chromium", step)
}

func TestHubBroadcastSkipsOtherTopics(t *testing.T) {
	h := NewHub()
	s, client := pipeSession(t)
	h.Subscribe(ipc.TopicStatusChanged, s)

	// Nothing subscribed to progress, so this must not block on the
	// unread pipe.
	h.Broadcast(ipc.TopicInstallProgress, "ignored")

	_ = client
	assert.Equal(t, 0, h.SubscriberCount(ipc.TopicInstallProgress))
}
