package daemon

import (
	"github.com/godbus/dbus/v5"

	"github.com/webrig/webrig/internal/log"
)

// desktopNotify posts a desktop notification about an install outcome over
// the session bus. Strictly best effort: headless hosts and missing
// notification services are silently tolerated.
func (srv *Server) desktopNotify(summary, body string) {
	if !srv.cfg.Notify {
		return
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debugf("daemon: session bus unavailable: %v", err)
		return
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"webrig",  // app name
		uint32(0), // replaces id
		"",        // icon
		summary,
		body,
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		int32(5000),               // timeout ms
	)
	if call.Err != nil {
		log.Debugf("daemon: notification failed: %v", call.Err)
	}
}
