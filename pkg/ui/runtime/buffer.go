package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
)

// Cell represents a single character cell in the buffer.
type Cell struct {
	Rune  rune
	Style backend.Style
}

// Buffer is a 2D grid of cells. Widgets render into it and the App flushes
// only the cells that changed since the last frame.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	changed []bool
	count   int
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		cells:   make([]Cell, w*h),
		changed: make([]bool, w*h),
		width:   w,
		height:  h,
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the buffer dimensions, preserving content where possible.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	for y := 0; y < min(h, b.height); y++ {
		for x := 0; x < min(w, b.width); x++ {
			cells[y*w+x] = b.cells[y*b.width+x]
		}
	}
	b.cells = cells
	b.changed = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllChanged()
}

// Clear fills the buffer with spaces in style s.
func (b *Buffer) Clear(s backend.Style) {
	b.Fill(Rect{Width: b.width, Height: b.height}, ' ', s)
}

// Get returns the cell at position (x, y), or a blank cell out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at position (x, y).
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	cell := Cell{Rune: r, Style: s}
	if b.cells[idx] != cell {
		b.cells[idx] = cell
		b.mark(idx)
	}
}

// SetString writes s starting at (x, y), clipped at maxX. Wide runes take
// two cells. It returns the column after the last cell written.
func (b *Buffer) SetString(x, y int, s string, style backend.Style, maxX int) int {
	maxX = min(maxX, b.width)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		b.Set(x, y, r, style)
		if w == 2 {
			b.Set(x+1, y, 0, style)
		}
		x += w
	}
	return x
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	clipped := r.Intersection(Rect{Width: b.width, Height: b.height})
	for y := clipped.Y; y < clipped.Y+clipped.Height; y++ {
		for x := clipped.X; x < clipped.X+clipped.Width; x++ {
			b.Set(x, y, ch, s)
		}
	}
}

// DrawRoundedBox draws a border with rounded corners.
func (b *Buffer) DrawRoundedBox(r Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	b.Set(r.X, r.Y, '╭', s)
	b.Set(right, r.Y, '╮', s)
	b.Set(r.X, bottom, '╰', s)
	b.Set(right, bottom, '╯', s)
	for x := r.X + 1; x < right; x++ {
		b.Set(x, r.Y, '─', s)
		b.Set(x, bottom, '─', s)
	}
	for y := r.Y + 1; y < bottom; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(right, y, '│', s)
	}
}

func (b *Buffer) mark(idx int) {
	if !b.changed[idx] {
		b.changed[idx] = true
		b.count++
	}
}

// MarkAllChanged forces every cell out on the next flush.
func (b *Buffer) MarkAllChanged() {
	for i := range b.changed {
		b.changed[i] = true
	}
	b.count = len(b.changed)
}

// ChangedCount returns the number of cells written since the last flush.
func (b *Buffer) ChangedCount() int {
	return b.count
}

// Flush calls fn for every changed cell and resets change tracking.
func (b *Buffer) Flush(fn func(x, y int, cell Cell)) {
	if b.count == 0 {
		return
	}
	for idx, changed := range b.changed {
		if changed {
			fn(idx%b.width, idx/b.width, b.cells[idx])
		}
	}
	clear(b.changed)
	b.count = 0
}
