package runtime

// Command represents an action/intent emitted by widgets.
// Commands bubble up from widgets to the app for handling.
type Command interface {
	isCommand()
}

// Quit signals the application should exit.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh requests a full screen redraw.
type Refresh struct{}

func (Refresh) isCommand() {}

// Submit indicates a field committed its text (Enter).
type Submit struct {
	Text string
}

func (Submit) isCommand() {}

// Save requests the form persist its edits and take them as the new baseline.
type Save struct{}

func (Save) isCommand() {}

// Revert requests the form discard edits back to its baseline.
type Revert struct{}

func (Revert) isCommand() {}

// Cancel indicates an operation was cancelled (e.g., Escape pressed).
type Cancel struct{}

func (Cancel) isCommand() {}

// FocusNext requests focus move to the next focusable widget.
type FocusNext struct{}

func (FocusNext) isCommand() {}

// FocusPrev requests focus move to the previous focusable widget.
type FocusPrev struct{}

func (FocusPrev) isCommand() {}
