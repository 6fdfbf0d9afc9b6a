package coordinator

import "github.com/webrig/webrig/internal/ipc"

// Status is the coordinator's normalized installation snapshot. The two wire
// channels name their fields differently (the query reply carries
// playwrightInstalled/browserInstalled/needsInstall, the broadcast carries
// installed as well); both normalize to this one shape. Snapshots are values,
// replaced wholesale and never partially mutated.
type Status struct {
	PlaywrightInstalled bool
	BrowserInstalled    bool
	NeedsInstall        bool
}

// Installed is the derived negation of NeedsInstall at snapshot time.
func (s Status) Installed() bool {
	return !s.NeedsInstall
}

// statusFromReply normalizes a successful query reply. Absent fields have
// already decoded to false; a false needsInstall means "assume installed",
// so the prompt is never shown speculatively.
func statusFromReply(reply ipc.StatusReply) Status {
	return Status{
		PlaywrightInstalled: reply.PlaywrightInstalled,
		BrowserInstalled:    reply.BrowserInstalled,
		NeedsInstall:        reply.NeedsInstall,
	}
}

// statusFromEvent normalizes a status-changed broadcast.
func statusFromEvent(ev ipc.StatusEvent) Status {
	return Status{
		PlaywrightInstalled: ev.PlaywrightInstalled,
		BrowserInstalled:    ev.BrowserInstalled,
		NeedsInstall:        ev.NeedsInstall,
	}
}
