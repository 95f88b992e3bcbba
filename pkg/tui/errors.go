package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoItems is returned when the host offers nothing to generate.
	ErrNoItems = errors.New("tui: no items available")
	// ErrCancelled is returned when the user declines the final confirmation.
	ErrCancelled = errors.New("tui: generation cancelled")
)
