package genetic

import (
	"errors"
	"testing"

	"liveiron/internal/grid"
)

func TestRowMajorBindingRequiresExactFit(t *testing.T) {
	b := RowMajorBinding{}

	if err := b.Validate(4, 3, 12); err != nil {
		t.Fatalf("exact fit rejected: %v", err)
	}
	if err := b.Validate(4, 3, 11); !errors.Is(err, ErrBindingMismatch) {
		t.Fatalf("expected ErrBindingMismatch, got: %v", err)
	}

	if got := b.Index(grid.Coord{Row: 2, Col: 1}, 4, 3, 12); got != 9 {
		t.Fatalf("unexpected index: %d", got)
	}
}

func TestModuloBindingTilesThePopulation(t *testing.T) {
	b := ModuloBinding{}

	if err := b.Validate(4, 3, 5); err != nil {
		t.Fatalf("small population rejected: %v", err)
	}
	if err := b.Validate(4, 3, 12); err != nil {
		t.Fatalf("exact fit rejected: %v", err)
	}
	if err := b.Validate(4, 3, 13); !errors.Is(err, ErrBindingMismatch) {
		t.Fatalf("expected ErrBindingMismatch for oversized population, got: %v", err)
	}
	if err := b.Validate(4, 3, 0); !errors.Is(err, ErrBindingMismatch) {
		t.Fatalf("expected ErrBindingMismatch for empty population, got: %v", err)
	}

	// Cell 7 of a width-4 board with a 5-member population binds to 7 mod 5.
	if got := b.Index(grid.Coord{Row: 1, Col: 3}, 4, 3, 5); got != 2 {
		t.Fatalf("unexpected index: %d", got)
	}
}

func TestModuloBindingCoversEveryMember(t *testing.T) {
	b := ModuloBinding{}
	width, height, size := 5, 4, 7

	bound := make([]bool, size)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			bound[b.Index(grid.Coord{Row: r, Col: c}, width, height, size)] = true
		}
	}
	for i, ok := range bound {
		if !ok {
			t.Fatalf("member %d never bound", i)
		}
	}
}
