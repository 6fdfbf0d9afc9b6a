package ipc

import (
	"os"
	"path/filepath"
)

func socketDir() string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return runtime
	}

	if os.Getuid() == 0 {
		if _, err := os.Stat("/run"); err == nil {
			return "/run/webrig"
		}
		return "/var/run/webrig"
	}

	return os.TempDir()
}

// SocketPath returns the daemon socket location. An explicit dir (from
// config) wins over the runtime-dir default.
func SocketPath(dir string) string {
	if dir == "" {
		dir = socketDir()
	}
	return filepath.Join(dir, "webrigd.sock")
}

// PidFilePath sits next to the socket and records the daemon's PID for
// stale-socket cleanup.
func PidFilePath(dir string) string {
	if dir == "" {
		dir = socketDir()
	}
	return filepath.Join(dir, "webrigd.pid")
}
