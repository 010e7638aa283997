// Package colour maps data values to fill colours through ordered
// choropleth breaks, and parses hex colours for the raster output path.
package colour

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"

	"github.com/kbeame/ihme-ui/models"
)

// Scale resolves a value to the colour of the highest break whose lower
// bound does not exceed it. Values below the lowest break take the lowest
// break's colour, so every value resolves to some colour.
type Scale struct {
	breaks []*models.ChoroplethBreak // sorted descending by lower bound
}

// NewScale copies and sorts the given breaks. The input slice is not mutated.
func NewScale(breaks []*models.ChoroplethBreak) *Scale {
	return &Scale{breaks: SortBreaks(breaks, false)}
}

// Lookup returns the colour for the given value, or an empty string when the
// scale has no breaks.
func (s *Scale) Lookup(value float64) string {
	if len(s.breaks) == 0 {
		return ""
	}
	for _, b := range s.breaks {
		if value >= b.LowerBound {
			return b.Colour
		}
	}
	return s.breaks[len(s.breaks)-1].Colour
}

// SortBreaks returns a copy of the breaks slice, sorted ascending or descending according to asc.
func SortBreaks(breaks []*models.ChoroplethBreak, asc bool) []*models.ChoroplethBreak {
	c := make([]*models.ChoroplethBreak, len(breaks))
	copy(c, breaks)
	sort.Slice(c, func(i, j int) bool {
		if asc {
			return c[i].LowerBound < c[j].LowerBound
		}
		return c[i].LowerBound > c[j].LowerBound
	})
	return c
}

// Quantize builds equal-interval breaks covering [min, max] with one break
// per palette colour.
func Quantize(min, max float64, palette []string) []*models.ChoroplethBreak {
	if len(palette) == 0 {
		return nil
	}
	n := float64(len(palette))
	breaks := make([]*models.ChoroplethBreak, len(palette))
	for i, c := range palette {
		breaks[i] = &models.ChoroplethBreak{
			LowerBound: min + (max-min)*float64(i)/n,
			Colour:     c,
		}
	}
	return breaks
}

// ParseHex converts a colour of the form #rgb or #rrggbb to RGBA. The SVG
// output passes colour strings through untouched, so only the raster path
// needs parsed colours.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("Colour '%s' is not a hex colour", s)
	}
	hex := s[1:]
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("Unable to parse colour '%s'", s)
	}
	switch len(hex) {
	case 3:
		return color.RGBA{
			R: uint8((v >> 8 & 0xf) * 0x11),
			G: uint8((v >> 4 & 0xf) * 0x11),
			B: uint8((v & 0xf) * 0x11),
			A: 0xff,
		}, nil
	case 6:
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 0xff,
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("Colour '%s' is not a hex colour", s)
}
