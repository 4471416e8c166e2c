// Package backend defines the terminal backend interface for the form UI.
// Forms render against this abstraction so the same widget tree runs on a
// real terminal (tcell) or an in-memory screen (sim) in tests.
package backend

import "github.com/odvcencio/dirtyfx/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores terminal state.
	Fini()

	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes pending cells to the terminal.
	Show()

	HideCursor()
	SetCursorPos(x, y int)

	// PollEvent blocks until an event is available. It returns nil once
	// the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on next Show().
	Sync()
}
