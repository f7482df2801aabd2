package types

import (
	"errors"
	"testing"
)

func TestNewPixelMapRejectsEmptyArea(t *testing.T) {
	tests := []Area{
		{Width: 0, Height: 4},
		{Width: 4, Height: 0},
		{Width: 0, Height: 0},
		{Width: -1, Height: 4},
	}

	for _, size := range tests {
		t.Run(size.String(), func(t *testing.T) {
			if _, err := NewPixelMap(size); err == nil {
				t.Fatalf("NewPixelMap(%s) succeeded, want error", size)
			}
		})
	}
}

func TestPixelMapRoundTrip(t *testing.T) {
	m, err := NewPixelMap(Area{Width: 3, Height: 2})
	if err != nil {
		t.Fatalf("NewPixelMap failed: %v", err)
	}

	if len(m.Pix) != 6 {
		t.Fatalf("backing slice has %d samples, want 6", len(m.Pix))
	}

	if err := m.Set(2, 1, 0.75); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := m.At(2, 1)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got != 0.75 {
		t.Fatalf("At(2,1) = %v, want 0.75", got)
	}

	// Row-major layout: (2,1) is the last cell.
	if m.Pix[5] != 0.75 {
		t.Fatalf("Pix[5] = %v, want 0.75", m.Pix[5])
	}
}

func TestPixelMapOutOfBounds(t *testing.T) {
	m, err := NewPixelMap(Area{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewPixelMap failed: %v", err)
	}

	coords := [][2]int{
		{-1, 0},
		{0, -1},
		{4, 0},
		{0, 4},
		{4, 4},
	}

	for _, c := range coords {
		if _, err := m.At(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d,%d) error = %v, want ErrOutOfBounds", c[0], c[1], err)
		}
		if err := m.Set(c[0], c[1], 0.5); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d,%d) error = %v, want ErrOutOfBounds", c[0], c[1], err)
		}
	}
}

func TestAreaContains(t *testing.T) {
	a := Area{Width: 2, Height: 3}

	if !a.Contains(0, 0) || !a.Contains(1, 2) {
		t.Fatal("corner pixels should be inside the area")
	}
	if a.Contains(2, 0) || a.Contains(0, 3) || a.Contains(-1, 1) {
		t.Fatal("pixels past an edge should be outside the area")
	}
}
