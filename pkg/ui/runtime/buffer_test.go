package runtime

import (
	"testing"

	"github.com/odvcencio/dirtyfx/pkg/ui/backend"
)

func TestBuffer_SetTracksChanges(t *testing.T) {
	b := NewBuffer(4, 2)
	style := backend.DefaultStyle()

	b.Set(1, 1, 'a', style)
	b.Set(1, 1, 'a', style)
	if got := b.ChangedCount(); got != 1 {
		t.Fatalf("expected 1 changed cell, got %d", got)
	}

	var flushed []Cell
	b.Flush(func(x, y int, cell Cell) {
		if x != 1 || y != 1 {
			t.Errorf("unexpected cell at %d,%d", x, y)
		}
		flushed = append(flushed, cell)
	})
	if len(flushed) != 1 || flushed[0].Rune != 'a' {
		t.Fatalf("unexpected flush %v", flushed)
	}
	if b.ChangedCount() != 0 {
		t.Fatal("flush should reset change tracking")
	}

	b.Set(1, 1, 'a', style)
	if b.ChangedCount() != 0 {
		t.Fatal("rewriting an identical cell is not a change")
	}
	b.Set(1, 1, 'a', style.Bold(true))
	if b.ChangedCount() != 1 {
		t.Fatal("a style change is a change")
	}
}

func TestBuffer_OutOfBounds(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Set(-1, 0, 'x', backend.DefaultStyle())
	b.Set(2, 0, 'x', backend.DefaultStyle())
	if b.ChangedCount() != 0 {
		t.Fatal("out of bounds writes must be ignored")
	}
	if got := b.Get(5, 5).Rune; got != ' ' {
		t.Fatalf("expected blank for out of bounds, got %q", got)
	}
}

func TestBuffer_SetStringClipsAndHandlesWideRunes(t *testing.T) {
	b := NewBuffer(6, 1)
	end := b.SetString(0, 0, "ab日本", backend.DefaultStyle(), 5)
	if end != 4 {
		t.Fatalf("expected to stop at column 4, got %d", end)
	}
	if b.Get(2, 0).Rune != '日' {
		t.Fatalf("expected wide rune at column 2, got %q", b.Get(2, 0).Rune)
	}
	if b.Get(4, 0).Rune != 0 {
		t.Fatalf("second wide rune should not fit, got %q", b.Get(4, 0).Rune)
	}
}

func TestBuffer_ResizePreservesContent(t *testing.T) {
	b := NewBuffer(3, 3)
	b.Set(1, 1, 'z', backend.DefaultStyle())
	b.Flush(func(int, int, Cell) {})

	b.Resize(5, 2)
	if b.Get(1, 1).Rune != 'z' {
		t.Fatal("content lost on resize")
	}
	if b.ChangedCount() != 10 {
		t.Fatalf("resize should mark every cell, got %d", b.ChangedCount())
	}
}

func TestBuffer_DrawRoundedBox(t *testing.T) {
	b := NewBuffer(4, 3)
	b.DrawRoundedBox(Rect{Width: 4, Height: 3}, backend.DefaultStyle())
	corners := map[[2]int]rune{{0, 0}: '╭', {3, 0}: '╮', {0, 2}: '╰', {3, 2}: '╯'}
	for pos, want := range corners {
		if got := b.Get(pos[0], pos[1]).Rune; got != want {
			t.Errorf("corner %v: expected %q, got %q", pos, want, got)
		}
	}
	if b.Get(1, 0).Rune != '─' || b.Get(0, 1).Rune != '│' {
		t.Error("edges not drawn")
	}
}
