package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
	"github.com/odvcencio/dirtyfx/pkg/ui/terminal"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// ErrNoBackend is returned by Run when the App has no backend.
var ErrNoBackend = errors.New("backend is required")

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands emitted by widgets.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Theme          *theme.Theme
	Update         UpdateFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
}

// App runs a widget tree against a terminal backend. Its event loop is the
// UI thread: widgets, observables and dirty properties are only touched
// from inside it. Other goroutines hand work over with Invoke.
type App struct {
	backend        backend.Backend
	screen         *Screen
	root           Widget
	theme          *theme.Theme
	update         UpdateFunc
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration

	running bool
	dirty   bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	return &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		theme:          cfg.Theme,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		done:           make(chan struct{}),
	}
}

// Screen returns the active screen, if initialized.
func (a *App) Screen() *Screen {
	return a.screen
}

// SetRoot swaps the root widget. Call it from the UI thread.
func (a *App) SetRoot(root Widget) {
	a.root = root
	if a.screen != nil {
		a.screen.SetRoot(root)
		a.dirty = true
	}
}

// SetCommandHandler replaces the command handler. Call it before Run.
func (a *App) SetCommandHandler(h CommandHandler) {
	a.commandHandler = h
}

// Post sends a message to the event loop, dropping it if the queue is full.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
	}
}

// Invoke schedules fn on the UI thread. Unlike Post it never drops work;
// it blocks while the queue is full and discards fn once the loop has
// exited.
func (a *App) Invoke(fn func()) {
	if fn == nil {
		return
	}
	select {
	case a.messages <- InvokeMsg{Fn: fn}:
	case <-a.done:
	}
}

// Done is closed when Run returns.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Run starts the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.doneOnce.Do(func() { close(a.done) })
	if a.backend == nil {
		return ErrNoBackend
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	if a.theme == nil {
		a.theme = theme.DefaultTheme()
	}
	a.screen = NewScreen(w, h, a.theme)
	if a.root != nil {
		a.screen.SetRoot(a.root)
	}
	if a.update == nil {
		a.update = DefaultUpdate
	}

	a.running = true
	a.dirty = true

	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for a.running {
		if a.dirty {
			a.render()
			a.dirty = false
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.messages:
			if a.update(a, msg) {
				a.dirty = true
			}
		case now := <-ticks:
			if a.update(a, TickMsg{Time: now}) {
				a.dirty = true
			}
		}
	}
	return nil
}

// DefaultUpdate runs invoked work, handles resizes, and routes everything
// else through the screen and the command handler.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.screen == nil {
		return false
	}

	switch m := msg.(type) {
	case InvokeMsg:
		m.Fn()
		return true
	case ResizeMsg:
		app.screen.Resize(m.Width, m.Height)
		app.screen.Buffer().MarkAllChanged()
		return true
	case TickMsg:
		return false
	case KeyMsg:
		if m.Key == terminal.KeyCtrlC {
			return app.handleCommand(Quit{})
		}
	}

	result := app.screen.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		if app.handleCommand(cmd) {
			dirty = true
		}
	}
	return dirty
}

func (a *App) handleCommand(cmd Command) bool {
	switch cmd.(type) {
	case Quit:
		a.running = false
		return false
	case Refresh:
		if a.screen != nil {
			a.screen.Buffer().MarkAllChanged()
		}
		return true
	case FocusNext, FocusPrev:
		return true
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

func (a *App) pollEvents() {
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}

		var msg Message
		switch e := ev.(type) {
		case terminal.KeyEvent:
			msg = KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift}
		case terminal.ResizeEvent:
			msg = ResizeMsg{Width: e.Width, Height: e.Height}
		case terminal.PasteEvent:
			msg = PasteMsg{Text: e.Text}
		default:
			continue
		}

		select {
		case a.messages <- msg:
		case <-a.done:
			return
		}
	}
}

func (a *App) render() {
	if a.screen == nil {
		return
	}
	a.screen.Render()
	a.screen.Buffer().Flush(func(x, y int, cell Cell) {
		a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
	})
	a.backend.Show()
}
