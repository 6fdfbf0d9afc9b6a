package tui

// stateChangedMsg arrives whenever the coordinator mutates; the model pulls
// a fresh snapshot in response.
type stateChangedMsg struct{}

// installDoneMsg marks the end of an install round trip. The outcome itself
// lands through the coordinator, this only unblocks the command slot.
type installDoneMsg struct{}
