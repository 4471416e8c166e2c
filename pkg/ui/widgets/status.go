package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/observable"
	"github.com/odvcencio/dirtyfx/pkg/ui/runtime"
	"github.com/odvcencio/dirtyfx/pkg/ui/theme"
)

// StatusBar shows the form's aggregate dirty state on the left, the last
// status message in the middle and key help on the right.
type StatusBar struct {
	Base
	dirty   observable.Observable[bool]
	message observable.Observable[string]
	help    string
}

// NewStatusBar creates a status bar over a dirty flag and a message.
func NewStatusBar(dirty observable.Observable[bool], message observable.Observable[string]) *StatusBar {
	return &StatusBar{
		dirty:   dirty,
		message: message,
		help:    "tab next · ctrl+s save · ctrl+r revert · esc quit",
	}
}

// SetHelp replaces the key help text.
func (s *StatusBar) SetHelp(help string) {
	s.help = help
}

// Badge returns the dirty badge text.
func (s *StatusBar) Badge() string {
	if s.dirty.Get() {
		return theme.Symbols.Dirty + " unsaved"
	}
	return theme.Symbols.Clean + " saved"
}

// Measure returns the status bar size (1 row tall, full width).
func (s *StatusBar) Measure(c runtime.Constraints) runtime.Size {
	return runtime.Size{Width: c.MaxWidth, Height: 1}
}

// Render draws the status bar.
func (s *StatusBar) Render(ctx runtime.RenderContext) {
	b := s.bounds
	if b.Width == 0 || b.Height == 0 {
		return
	}
	right := b.X + b.Width

	badgeStyle := ctx.Theme.Success
	if s.dirty.Get() {
		badgeStyle = ctx.Theme.LabelDirty
	}
	x := ctx.Buffer.SetString(b.X, b.Y, s.Badge(), badgeStyle, right)

	help := " " + s.help
	helpX := right - runewidth.StringWidth(help)
	if msg := s.message.Get(); msg != "" {
		limit := right
		if helpX > x {
			limit = helpX
		}
		ctx.Buffer.SetString(x+2, b.Y, truncate(msg, limit-x-2), ctx.Theme.TextSecondary, limit)
	}
	if helpX > x+2 {
		ctx.Buffer.SetString(helpX, b.Y, help, ctx.Theme.TextMuted, right)
	}
}
