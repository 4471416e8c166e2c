// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
	"github.com/odvcencio/dirtyfx/pkg/ui/backend/tcell"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
)

// Backend renders into tcell's simulation screen and takes input from an
// in-memory queue, so tests can script keystrokes and read back frames.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen

	mu     sync.Mutex
	events chan terminal.Event
	done   chan struct{}
	once   sync.Once
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		events:  make(chan terminal.Event, 256),
		done:    make(chan struct{}),
	}
}

// Init initializes the simulation screen at its configured size.
func (s *Backend) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, h := s.screen.Size()
	if err := s.Backend.Init(); err != nil {
		return err
	}
	if w > 0 && h > 0 {
		s.screen.SetSize(w, h)
	}
	return nil
}

// Fini stops PollEvent and releases the screen.
func (s *Backend) Fini() {
	s.once.Do(func() { close(s.done) })
	s.Backend.Fini()
}

// Size returns the simulated terminal dimensions.
func (s *Backend) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.Size()
}

// SetContent writes a cell to the simulated screen.
func (s *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Backend.SetContent(x, y, mainc, comb, style)
}

// Show flushes the simulated screen.
func (s *Backend) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Backend.Show()
}

// PollEvent returns the next injected event, or nil after Fini.
func (s *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-s.events:
		return ev
	case <-s.done:
		return nil
	}
}

// PostEvent queues an event for PollEvent.
func (s *Backend) PostEvent(ev terminal.Event) error {
	select {
	case s.events <- ev:
	case <-s.done:
	}
	return nil
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectKeyString injects a string as a sequence of rune key events.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.InjectKey(terminal.KeyRune, r)
	}
}

// InjectResize resizes the screen and posts the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.mu.Lock()
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the current screen content, one line per row.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			mainc, comb, _, _ := s.screen.GetContent(x, y)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (rune, backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, tcStyle, _ := s.screen.GetContent(x, y)
	return m, convertTcellStyle(tcStyle)
}

// FindText returns the position of text on screen, or (-1, -1).
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	style := backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg))

	if attrs&tcellv2.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&tcellv2.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if attrs&tcellv2.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&tcellv2.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&tcellv2.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	return style
}

func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

var _ backend.Backend = (*Backend)(nil)
