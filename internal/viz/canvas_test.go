package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Set(3, 5)
	if c.At(1, 1) == brailleBase {
		t.Fatal("Set did not mark the braille cell")
	}
	c.Unset(3, 5)
	if c.At(1, 1) != brailleBase {
		t.Fatalf("Unset left residue: %x", c.At(1, 1))
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -3)
	c.Set(100, 100)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.At(row, col) != brailleBase {
				t.Fatalf("out-of-bounds Set mutated cell (%d,%d): %x", row, col, c.At(row, col))
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 4)
	c.DrawLine(0, 0, 7, 15)
	c.Clear()
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.At(row, col) != brailleBase {
				t.Fatal("Clear left pixels behind")
			}
		}
	}
}

func TestCanvasDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(8, 8)
	c.DrawLine(0, 0, 15, 31)
	if c.At(0, 0) == brailleBase {
		t.Fatal("line start not drawn")
	}
	if c.At(7, 7) == brailleBase {
		t.Fatal("line end not drawn")
	}
}

func TestCanvasDrawPolyline(t *testing.T) {
	c := NewCanvas(8, 8)
	c.DrawPolyline([]int{0, 15, 15}, []int{0, 0, 31})
	if c.At(0, 0) == brailleBase || c.At(0, 7) == brailleBase || c.At(7, 7) == brailleBase {
		t.Fatal("polyline corners not drawn")
	}
	// A single point draws nothing and must not panic.
	c.Clear()
	c.DrawPolyline([]int{3}, []int{3})
	if c.At(0, 1) != brailleBase {
		t.Fatal("single-point polyline should draw nothing")
	}
}

func TestCanvasStringShape(t *testing.T) {
	c := NewCanvas(5, 3)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 5 {
			t.Fatalf("row width = %d, want 5", len([]rune(line)))
		}
	}
}
