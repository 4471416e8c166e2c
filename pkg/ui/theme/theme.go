// Package theme provides the visual design system for dirtyfx forms.
// Rich blacks, warm text and an amber accent that flags unsaved edits.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
)

// RGB is a palette entry shared by the terminal and plain renderers.
type RGB struct {
	R, G, B uint8
}

// Color converts to a backend color.
func (c RGB) Color() backend.Color {
	return backend.ColorRGB(c.R, c.G, c.B)
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is the raw color set a Theme is built from.
type Palette struct {
	Background    RGB
	Surface       RGB
	TextPrimary   RGB
	TextSecondary RGB
	TextMuted     RGB
	Accent        RGB
	Success       RGB
	Error         RGB
	Border        RGB
}

// DarkElegance is the default palette.
var DarkElegance = Palette{
	Background:    RGB{12, 12, 16},
	Surface:       RGB{22, 22, 28},
	TextPrimary:   RGB{240, 238, 232},
	TextSecondary: RGB{160, 158, 150},
	TextMuted:     RGB{100, 98, 92},
	Accent:        RGB{255, 183, 77},
	Success:       RGB{134, 239, 172},
	Error:         RGB{255, 110, 90},
	Border:        RGB{50, 50, 60},
}

// Theme defines the styles widgets draw with.
type Theme struct {
	Palette Palette

	Background    backend.Style
	TextPrimary   backend.Style
	TextSecondary backend.Style
	TextMuted     backend.Style

	// Field labels change style when their property has unsaved edits.
	Label      backend.Style
	LabelDirty backend.Style

	Field      backend.Style
	FieldFocus backend.Style

	Accent  backend.Style
	Success backend.Style
	Error   backend.Style

	Border      backend.Style
	BorderFocus backend.Style
}

// DefaultTheme returns the Dark Elegance theme.
func DefaultTheme() *Theme {
	return FromPalette(DarkElegance)
}

// FromPalette derives a Theme from p.
func FromPalette(p Palette) *Theme {
	base := backend.DefaultStyle().Background(p.Background.Color())
	return &Theme{
		Palette: p,

		Background:    base,
		TextPrimary:   base.Foreground(p.TextPrimary.Color()),
		TextSecondary: base.Foreground(p.TextSecondary.Color()),
		TextMuted:     base.Foreground(p.TextMuted.Color()),

		Label:      base.Foreground(p.TextSecondary.Color()),
		LabelDirty: base.Foreground(p.Accent.Color()).Bold(true),

		Field:      base.Foreground(p.TextPrimary.Color()).Background(p.Surface.Color()),
		FieldFocus: base.Foreground(p.TextPrimary.Color()).Background(p.Surface.Color()).Underline(true),

		Accent:  base.Foreground(p.Accent.Color()),
		Success: base.Foreground(p.Success.Color()),
		Error:   base.Foreground(p.Error.Color()),

		Border:      base.Foreground(p.Border.Color()),
		BorderFocus: base.Foreground(p.Accent.Color()),
	}
}

// Lipgloss holds the same theme as lipgloss styles for non-interactive
// output.
type Lipgloss struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Clean  lipgloss.Style
	Dirty  lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
}

// Lipgloss builds lipgloss styles from the theme's palette.
func (t *Theme) Lipgloss() Lipgloss {
	p := t.Palette
	color := func(c RGB) lipgloss.Color { return lipgloss.Color(c.Hex()) }
	return Lipgloss{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(color(p.Accent)),
		Label:  lipgloss.NewStyle().Foreground(color(p.TextSecondary)),
		Value:  lipgloss.NewStyle().Foreground(color(p.TextPrimary)),
		Clean:  lipgloss.NewStyle().Foreground(color(p.Success)),
		Dirty:  lipgloss.NewStyle().Bold(true).Foreground(color(p.Accent)),
		Muted:  lipgloss.NewStyle().Foreground(color(p.TextMuted)),
		Error:  lipgloss.NewStyle().Foreground(color(p.Error)),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color(p.Border)).Padding(0, 1),
	}
}

// Symbols provides consistent iconography.
var Symbols = struct {
	Dirty  string
	Clean  string
	Cursor string
	On     string
	Off    string
	Check  string
	Cross  string
}{
	Dirty:  "●",
	Clean:  "○",
	Cursor: "›",
	On:     "[x]",
	Off:    "[ ]",
	Check:  "✓",
	Cross:  "✗",
}
