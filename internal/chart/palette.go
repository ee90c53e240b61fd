package chart

import (
	"errors"
	"fmt"
	"slices"
)

var ErrPaletteExhausted = errors.New("palette exhausted")

var defaultColors = []string{"Blue", "Orange", "Purple", "Gray", "Pink", "Gold", "Violet"}

// Palette is an immutable ordered list of line colors. Colors are handed out
// by position and never wrap around.
type Palette struct {
	colors []string
}

func DefaultPalette() Palette {
	return Palette{colors: slices.Clone(defaultColors)}
}

// NewPalette copies colors. An empty list gives the default palette.
func NewPalette(colors []string) Palette {
	if len(colors) == 0 {
		return DefaultPalette()
	}
	return Palette{colors: slices.Clone(colors)}
}

func (p Palette) Len() int { return len(p.colors) }

func (p Palette) Colors() []string { return slices.Clone(p.colors) }

// Color returns the i-th color, or ErrPaletteExhausted when i is past the end.
func (p Palette) Color(i int) (string, error) {
	if i < 0 || i >= len(p.colors) {
		return "", fmt.Errorf("%w: color %d requested, palette has %d", ErrPaletteExhausted, i, len(p.colors))
	}
	return p.colors[i], nil
}
