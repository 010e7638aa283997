package htmlutil

import "unicode"

// DefaultFontSize is the font size (in px) assumed when a caller passes 0.
const DefaultFontSize = 14

// per-em advance widths for a typical sans-serif face, bucketed by glyph
// shape. Close enough for layout decisions; not a substitute for measuring.
const (
	narrowWidth  = 0.28
	mediumWidth  = 0.52
	upperWidth   = 0.72
	wideWidth    = 0.92
	digitWidth   = 0.56
	spaceWidth   = 0.28
	defaultWidth = 0.54
)

// ApproximateTextWidth estimates the rendered width in pixels of text at
// the given font size, so that svg layout can reserve space for labels.
// A fontSize of 0 (or below) assumes DefaultFontSize.
func ApproximateTextWidth(text string, fontSize int) float64 {
	size := float64(fontSize)
	if size <= 0 {
		size = DefaultFontSize
	}
	width := 0.0
	for _, r := range text {
		width += glyphWidth(r) * size
	}
	return width
}

func glyphWidth(r rune) float64 {
	switch {
	case r == ' ':
		return spaceWidth
	case isNarrow(r):
		return narrowWidth
	case isWide(r):
		return wideWidth
	case unicode.IsDigit(r):
		return digitWidth
	case unicode.IsUpper(r):
		return upperWidth
	case unicode.IsLower(r):
		return mediumWidth
	}
	return defaultWidth
}

func isNarrow(r rune) bool {
	switch r {
	case 'i', 'j', 'l', 't', 'f', 'r', 'I', '.', ',', ':', ';', '\'', '|', '!', '(', ')', '[', ']':
		return true
	}
	return false
}

func isWide(r rune) bool {
	switch r {
	case 'm', 'w', 'M', 'W', '%', '@':
		return true
	}
	return false
}
