package daemon

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
)

// session wraps one client connection. Responses and broadcasts interleave
// on the same socket, so every write goes through the session's lock.
type session struct {
	id   string
	conn net.Conn

	mu  sync.Mutex
	enc *json.Encoder
}

func newSession(conn net.Conn) *session {
	return &session{
		id:   uuid.NewString(),
		conn: conn,
		enc:  json.NewEncoder(conn),
	}
}

func (s *session) write(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(v)
}

func respond[T any](s *session, id interface{}, result T) {
	resp := ipc.Response[T]{ID: id, Result: &result}
	if err := s.write(resp); err != nil {
		log.Debugf("daemon: write response: %v", err)
	}
}

func respondError(s *session, id interface{}, errMsg string) {
	log.Errorf("daemon: request error: id=%v error=%s", id, errMsg)
	resp := ipc.Response[any]{ID: id, Error: errMsg}
	if err := s.write(resp); err != nil {
		log.Debugf("daemon: write error response: %v", err)
	}
}
