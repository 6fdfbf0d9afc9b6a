package daemon

import (
	"encoding/json"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
)

// Hub tracks which sessions subscribed to which broadcast topics and fans
// events out to them. Delivery is best effort: a dead connection loses its
// events and gets dropped when its read loop exits.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[string]*session
}

func NewHub() *Hub {
	return &Hub{
		topics: map[string]map[string]*session{
			ipc.TopicStatusChanged:   {},
			ipc.TopicInstallProgress: {},
		},
	}
}

// ValidTopic reports whether the topic exists.
func (h *Hub) ValidTopic(topic string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.topics[topic]
	return ok
}

// Topics lists the known topic names.
func (h *Hub) Topics() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return maps.Keys(h.topics)
}

func (h *Hub) Subscribe(topic string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		subs[s.id] = s
	}
}

func (h *Hub) Unsubscribe(topic string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, s.id)
	}
}

// Drop removes a disconnected session from every topic.
func (h *Hub) Drop(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.topics {
		delete(subs, s.id)
	}
}

// Broadcast sends payload to every session subscribed to topic.
func (h *Hub) Broadcast(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("daemon: marshal broadcast payload: %v", err)
		return
	}
	ev := ipc.Event{Event: topic, Payload: data}

	h.mu.RLock()
	subs := make([]*session, 0, len(h.topics[topic]))
	for _, s := range h.topics[topic] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.write(ev); err != nil {
			log.Debugf("daemon: broadcast to %s failed: %v", s.id, err)
		}
	}
}

// SubscriberCount is used by tests and debug logging.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
