package tui

type FocusArea int

const (
	FocusShell FocusArea = iota
	FocusEditor
)
