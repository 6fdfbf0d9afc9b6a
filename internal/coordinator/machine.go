package coordinator

// Phase is the install attempt's lifecycle state. Modeling it as an explicit
// machine keeps the reconciliation rule between the install command's direct
// reply and the status broadcast auditable: Installing is left only on
// authoritative events (a broadcast reporting installed, or a failure reply),
// never on a bare success reply.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInstalling
	PhaseError
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInstalling:
		return "installing"
	case PhaseError:
		return "error"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// RenderState is the discrete user-visible state derived from the machine.
type RenderState int

const (
	RenderHidden RenderState = iota
	RenderPrompt
	RenderInstalling
	RenderComplete
)

// Machine holds the install panel's reconciliation state. It is pure and
// synchronous: one owner applies events, interleaved in whatever order the
// transport delivers them, and reads derived state back out. No locking
// happens here.
type Machine struct {
	status    *Status
	phase     Phase
	progress  string
	errMsg    string
	dismissed bool
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseIdle}
}

// ApplyReply replaces the snapshot from a successful status query. Query
// replies are not authoritative for a running install: they never move the
// machine to Complete, so a reply reporting installed while Installing
// simply hides the panel until a broadcast settles the attempt.
func (m *Machine) ApplyReply(status Status) {
	m.status = &status

	if m.phase == PhaseComplete && status.NeedsInstall {
		m.phase = PhaseIdle
	}
}

// ApplyBroadcast replaces the snapshot from a status-changed broadcast.
// A broadcast reporting installed is authoritative: it settles a running
// (or failed) install attempt as Complete regardless of what the attempt's
// own reply said, or whether it arrived at all. A broadcast that needs
// install again drops a stale Complete back to Idle.
func (m *Machine) ApplyBroadcast(status Status) {
	m.status = &status

	if status.Installed() {
		if m.phase == PhaseInstalling || m.phase == PhaseError {
			m.phase = PhaseComplete
		}
		return
	}

	if m.phase == PhaseComplete {
		m.phase = PhaseIdle
	}
}

// BeginInstall starts an attempt. It refuses while an attempt is in flight
// or when the snapshot already reports installed; the UI disables the action
// in those states and this guard covers it being invoked anyway. The error
// message is cleared before the installing phase is entered.
func (m *Machine) BeginInstall() bool {
	if m.phase == PhaseInstalling {
		return false
	}
	if m.status != nil && m.status.Installed() {
		return false
	}

	m.errMsg = ""
	m.progress = "preparing"
	m.phase = PhaseInstalling
	return true
}

// FailInstall records a failure reply or transport fault. The snapshot is
// left untouched: a failed install says nothing about what is currently
// installed. A later installed broadcast may still move the machine to
// Complete.
func (m *Machine) FailInstall(reason string) {
	if reason == "" {
		reason = "installation failed"
	}
	m.errMsg = reason
	m.phase = PhaseError
}

// ApplyProgress replaces the progress line verbatim, last write wins. No
// history is retained here.
func (m *Machine) ApplyProgress(line string) {
	m.progress = line
}

// Dismiss hides the panel for the rest of this activation. Idempotent; a
// fresh machine (new activation) starts undismissed.
func (m *Machine) Dismiss() {
	m.dismissed = true
}

// Installing reports whether an attempt is between its request being sent
// and a terminal outcome.
func (m *Machine) Installing() bool {
	return m.phase == PhaseInstalling
}

func (m *Machine) Phase() Phase         { return m.phase }
func (m *Machine) Progress() string     { return m.progress }
func (m *Machine) ErrorMessage() string { return m.errMsg }
func (m *Machine) Dismissed() bool      { return m.dismissed }

// Status returns the current snapshot, or nil before the first successful
// query.
func (m *Machine) Status() *Status {
	if m.status == nil {
		return nil
	}
	s := *m.status
	return &s
}

// Render derives the visible state. Hidden beats everything; Complete (an
// attempt settled by an authoritative broadcast) stays visible even though
// the snapshot no longer needs install; otherwise a snapshot that does not
// need install renders nothing, and Installing wins over the default prompt.
// A failed attempt renders the prompt again with the error banner overlaid.
func (m *Machine) Render() RenderState {
	if m.status == nil || m.dismissed {
		return RenderHidden
	}
	if m.phase == PhaseComplete {
		return RenderComplete
	}
	if !m.status.NeedsInstall {
		return RenderHidden
	}
	if m.phase == PhaseInstalling {
		return RenderInstalling
	}
	return RenderPrompt
}

// ShowError reports whether the error banner accompanies the rendered state.
// It overlays any visible state; a hidden panel shows nothing.
func (m *Machine) ShowError() bool {
	return m.Render() != RenderHidden && m.errMsg != ""
}
