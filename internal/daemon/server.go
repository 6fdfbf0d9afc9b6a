package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/webrig/webrig/internal/config"
	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
	"github.com/webrig/webrig/internal/runtime"
)

// installRunner is what the router needs from the installer; tests swap in
// scripted ones.
type installRunner interface {
	Install(ctx context.Context, progressChan chan<- runtime.ProgressMsg) error
}

// Server is the privileged background installer. It owns the Unix socket,
// performs detection and installation, and broadcasts status and progress
// to subscribers.
type Server struct {
	cfg       *config.Config
	detector  *runtime.Detector
	installer installRunner
	hub       *Hub

	installing atomic.Bool

	// preflight and notify are injectable for tests; defaults talk to
	// NetworkManager and the desktop notification service.
	preflight func() error
	notify    func(summary, body string)

	socketPath string
	pidPath    string
}

func NewServer(cfg *config.Config) *Server {
	srv := &Server{
		cfg:        cfg,
		detector:   runtime.NewDetector(afero.NewOsFs(), cfg.Browser),
		installer:  runtime.NewInstaller(cfg.Browser),
		hub:        NewHub(),
		socketPath: ipc.SocketPath(cfg.SocketDir),
		pidPath:    ipc.PidFilePath(cfg.SocketDir),
	}
	srv.preflight = checkConnectivity
	srv.notify = srv.desktopNotify
	return srv
}

// Start listens on the Unix socket and serves until ctx is cancelled or the
// listener fails.
func (srv *Server) Start(ctx context.Context) error {
	if err := srv.cleanupStaleSocket(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(srv.socketPath), 0o755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	listener, err := net.Listen("unix", srv.socketPath)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(srv.socketPath)
	defer os.Remove(srv.pidPath)

	if err := os.WriteFile(srv.pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		log.Warnf("daemon: write pid file: %v", err)
	}

	watcherStop := srv.startCacheWatcher()
	defer watcherStop()

	log.Infof("daemon: listening on %s", srv.socketPath)
	log.Info("Protocol: JSON lines over Unix socket")
	log.Info("Request format: {\"id\": <any>, \"method\": \"...\", \"params\": {...}}")
	log.Info("Response format: {\"id\": <any>, \"result\": {...}} or {\"id\": <any>, \"error\": \"...\"}")
	log.Info("Broadcast format: {\"event\": \"<topic>\", \"payload\": {...}}")
	log.Info("Available methods:")
	log.Info("  ping - Test connection")
	log.Infof("  %s - Query installation status", ipc.MethodGetStatus)
	log.Infof("  %s - Install the runtime and browser", ipc.MethodInstall)
	log.Infof("  %s / %s - Manage broadcast topics (params: topic)", ipc.MethodSubscribe, ipc.MethodUnsubscribe)
	log.Infof("Topics: %s", strings.Join(srv.hub.Topics(), ", "))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go srv.handleConnection(ctx, conn)
	}
}

func (srv *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	s := newSession(conn)
	defer srv.hub.Drop(s)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()

		var req ipc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			respondError(s, nil, "invalid json")
			continue
		}

		srv.route(ctx, s, req)
	}
}

// cleanupStaleSocket removes a socket left by a dead daemon. A live PID in
// the pid file means another instance already runs.
func (srv *Server) cleanupStaleSocket() error {
	data, err := os.ReadFile(srv.pidPath)
	if err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil {
			if unix.Kill(pid, 0) == nil {
				return fmt.Errorf("daemon already running (pid %d)", pid)
			}
		}
		os.Remove(srv.pidPath)
		log.Debugf("daemon: removed stale pid file %s", srv.pidPath)
	}

	if _, err := os.Stat(srv.socketPath); err == nil {
		os.Remove(srv.socketPath)
		log.Debugf("daemon: removed stale socket %s", srv.socketPath)
	}
	return nil
}
