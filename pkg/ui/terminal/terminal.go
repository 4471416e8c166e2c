// Package terminal provides terminal event types used throughout the UI.
package terminal

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) eventMarker() {}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// PasteEvent represents bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyCtrlC
	KeyCtrlR
	KeyCtrlS
	KeyCtrlZ
)

var keyNames = map[Key]string{
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyBacktab:   "shift+tab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyDelete:    "delete",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlR:     "ctrl+r",
	KeyCtrlS:     "ctrl+s",
	KeyCtrlZ:     "ctrl+z",
}

// String returns the key binding name used in help text.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "none"
}
