package daemon

import (
	"context"
	"fmt"

	"github.com/webrig/webrig/internal/errdefs"
	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
	"github.com/webrig/webrig/internal/runtime"
)

func (srv *Server) route(ctx context.Context, s *session, req ipc.Request) {
	log.Debugf("daemon: request method=%s id=%v", req.Method, req.ID)

	switch req.Method {
	case ipc.MethodPing:
		respond(s, req.ID, "pong")
	case ipc.MethodGetStatus:
		srv.handleGetStatus(s, req)
	case ipc.MethodInstall:
		srv.handleInstall(ctx, s, req)
	case ipc.MethodSubscribe:
		srv.handleSubscribe(s, req)
	case ipc.MethodUnsubscribe:
		srv.handleUnsubscribe(s, req)
	default:
		respondError(s, req.ID, fmt.Sprintf("unknown method: %s", req.Method))
	}
}

func (srv *Server) handleGetStatus(s *session, req ipc.Request) {
	status := srv.detector.Detect()
	respond(s, req.ID, ipc.StatusReply{
		Success:             true,
		PlaywrightInstalled: status.PlaywrightInstalled,
		BrowserInstalled:    status.BrowserInstalled,
		NeedsInstall:        status.NeedsInstall,
	})
}

// handleInstall runs the install and replies with its terminal outcome. The
// status broadcast after the attempt is unconditional, success or failure,
// so subscribers always get an authoritative snapshot.
func (srv *Server) handleInstall(ctx context.Context, s *session, req ipc.Request) {
	if !srv.installing.CompareAndSwap(false, true) {
		respond(s, req.ID, ipc.InstallReply{Success: false, Error: errdefs.ErrInstallInProgress.Error()})
		return
	}
	defer srv.installing.Store(false)

	defer func() {
		status := srv.detector.Detect()
		srv.broadcastStatus(status)
	}()

	if err := srv.preflight(); err != nil {
		srv.notify("Install failed", err.Error())
		respond(s, req.ID, ipc.InstallReply{Success: false, Error: err.Error()})
		return
	}

	progressChan := make(chan runtime.ProgressMsg, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range progressChan {
			srv.hub.Broadcast(ipc.TopicInstallProgress, msg.Step)
		}
	}()

	err := srv.installer.Install(ctx, progressChan)
	close(progressChan)
	<-done

	if err != nil {
		log.Errorf("daemon: install failed: %v", err)
		srv.notify("Install failed", err.Error())
		respond(s, req.ID, ipc.InstallReply{Success: false, Error: err.Error()})
		return
	}

	log.Info("daemon: install finished")
	srv.notify("Install complete", "The automation runtime and browser are ready.")
	respond(s, req.ID, ipc.InstallReply{Success: true})
}

func (srv *Server) handleSubscribe(s *session, req ipc.Request) {
	topic, ok := req.Params["topic"].(string)
	if !ok {
		respondError(s, req.ID, "missing or invalid 'topic' parameter")
		return
	}
	if !srv.hub.ValidTopic(topic) {
		respondError(s, req.ID, fmt.Sprintf("unknown topic: %s", topic))
		return
	}

	srv.hub.Subscribe(topic, s)
	respond(s, req.ID, "subscribed")
}

func (srv *Server) handleUnsubscribe(s *session, req ipc.Request) {
	topic, ok := req.Params["topic"].(string)
	if !ok {
		respondError(s, req.ID, "missing or invalid 'topic' parameter")
		return
	}

	srv.hub.Unsubscribe(topic, s)
	respond(s, req.ID, "unsubscribed")
}

func (srv *Server) broadcastStatus(status runtime.Status) {
	srv.hub.Broadcast(ipc.TopicStatusChanged, ipc.StatusEvent{
		Installed:           status.Installed(),
		PlaywrightInstalled: status.PlaywrightInstalled,
		BrowserInstalled:    status.BrowserInstalled,
		NeedsInstall:        status.NeedsInstall,
	})
}
