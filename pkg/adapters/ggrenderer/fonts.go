package ggrenderer

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/user/photoinsight/pkg/ports"
)

// FontSet holds one parsed typeface per font role.
// Parsed fonts are immutable and shared by every canvas of a renderer.
type FontSet struct {
	fonts map[ports.FontRole]*truetype.Font
}

var defaultFontData = map[ports.FontRole][]byte{
	ports.FontSans:       goregular.TTF,
	ports.FontSansMedium: gomedium.TTF,
	ports.FontSansBold:   gobold.TTF,
	ports.FontMono:       gomono.TTF,
	ports.FontMonoBold:   gomonobold.TTF,
}

// NewFontSet parses the bundled Go fonts and then any overrides.
// Overrides are raw TrueType data keyed by role, typically a CJK-capable
// face read from the configured font paths.
func NewFontSet(overrides map[ports.FontRole][]byte) (*FontSet, error) {
	fs := &FontSet{fonts: make(map[ports.FontRole]*truetype.Font, len(defaultFontData))}
	for role, data := range defaultFontData {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse bundled font %d: %w", role, err)
		}
		fs.fonts[role] = f
	}
	for role, data := range overrides {
		if len(data) == 0 {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %d: %w", role, err)
		}
		fs.fonts[role] = f
	}
	return fs, nil
}

func (fs *FontSet) font(role ports.FontRole) *truetype.Font {
	if f, ok := fs.fonts[role]; ok {
		return f
	}
	return fs.fonts[ports.FontSans]
}

type faceKey struct {
	role ports.FontRole
	size float64
}

// faceCache memoizes faces for a single canvas.
// A font.Face is not safe for concurrent use, so caches are never shared.
type faceCache struct {
	fonts *FontSet
	faces map[faceKey]font.Face
}

func newFaceCache(fonts *FontSet) *faceCache {
	return &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)}
}

func (c *faceCache) face(role ports.FontRole, size float64) font.Face {
	key := faceKey{role: role, size: size}
	if face, ok := c.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(c.fonts.font(role), &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	c.faces[key] = face
	return face
}
