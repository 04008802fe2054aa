package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// DefaultFace covers ASCII only; LoadFace a TTF/OTF for other scripts.
func DefaultFace() font.Face { return basicfont.Face7x13 }

// LoadFace reads a TrueType/OpenType file at the given point size.
func LoadFace(path string, size float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	if size <= 0 {
		size = 16
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

// canDraw reports whether face has a real glyph for every rune of s. Only
// the bitmap face can be checked; other faces are trusted.
func canDraw(face font.Face, s string) bool {
	bf, ok := face.(*basicfont.Face)
	if !ok {
		return true
	}
	for _, r := range s {
		if !inRanges(bf, r) {
			return false
		}
	}
	return true
}

func inRanges(f *basicfont.Face, r rune) bool {
	if r == '\ufffd' {
		return true
	}
	for _, rng := range f.Ranges {
		if rng.Low <= r && r < rng.High {
			return rng.Low != '\ufffd'
		}
	}
	return false
}
