package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNilApp is returned when a session is built without a page.
	ErrNilApp = errors.New("tui: page is required")
)
