package ipc

import "encoding/json"

// JSON-lines protocol over the daemon's Unix socket.
//
// Request format:  {"id": <any>, "method": "...", "params": {...}}
// Response format: {"id": <any>, "result": {...}} or {"id": <any>, "error": "..."}
// Broadcast format: {"event": "<topic>", "payload": {...}}
//
// Broadcasts are only delivered on connections that subscribed to the topic.

const (
	MethodPing        = "ping"
	MethodGetStatus   = "runtime.getStatus"
	MethodInstall     = "runtime.install"
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
)

const (
	TopicStatusChanged   = "status-changed"
	TopicInstallProgress = "install-progress"
)

type Request struct {
	ID     interface{}            `json:"id,omitempty"`
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type Response[T any] struct {
	ID     interface{} `json:"id,omitempty"`
	Result *T          `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// StatusReply is the result of runtime.getStatus. Absent boolean fields
// decode to false; consumers treat that as "assume installed" rather than
// an error.
type StatusReply struct {
	Success             bool   `json:"success"`
	PlaywrightInstalled bool   `json:"playwrightInstalled,omitempty"`
	BrowserInstalled    bool   `json:"browserInstalled,omitempty"`
	NeedsInstall        bool   `json:"needsInstall,omitempty"`
	Error               string `json:"error,omitempty"`
}

// InstallReply is the terminal reply to runtime.install.
type InstallReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// StatusEvent is the status-changed broadcast payload. It carries the
// derived installed flag directly, unlike the query reply.
type StatusEvent struct {
	Installed           bool `json:"installed"`
	PlaywrightInstalled bool `json:"playwrightInstalled"`
	BrowserInstalled    bool `json:"browserInstalled"`
	NeedsInstall        bool `json:"needsInstall"`
}
