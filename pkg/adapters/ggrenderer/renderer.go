// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/user/photoinsight/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct {
	fonts *FontSet
}

// New creates a new Renderer with the bundled Go fonts.
func New() *Renderer {
	fonts, err := NewFontSet(nil)
	if err != nil {
		// Bundled fonts are compiled in.
		panic(err)
	}
	return &Renderer{fonts: fonts}
}

// NewWithFonts creates a new Renderer whose font roles are overridden by
// the given TrueType data.
func NewWithFonts(overrides map[ports.FontRole][]byte) (*Renderer, error) {
	fonts, err := NewFontSet(overrides)
	if err != nil {
		return nil, err
	}
	return &Renderer{fonts: fonts}, nil
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc, faces: newFaceCache(r.fonts)}
}

// DecodeImage decodes image data into an image.Image.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		return jpeg.Decode(reader)
	case ports.FormatPNG:
		return png.Decode(reader)
	default:
		img, _, err := image.Decode(reader)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: clampQuality(quality)}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resamples an image with the Lanczos filter.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// CropImage copies region of img into a new zero-origin image.
func (r *Renderer) CropImage(img image.Image, region image.Rectangle) image.Image {
	return imaging.Crop(img, region)
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
// A Canvas must not be used from more than one goroutine.
type Canvas struct {
	dc    *gg.Context
	faces *faceCache
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawImageRounded resamples img to the box and draws it clipped to a
// rounded rectangle.
func (c *Canvas) DrawImageRounded(img image.Image, x, y, width, height, radius int) {
	if width <= 0 || height <= 0 {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(width), float64(height), float64(radius))
	c.dc.Clip()
	c.dc.DrawImage(img, x, y)
	c.dc.ResetClip()
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawRoundedRect draws a filled rounded rectangle.
func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

// DrawText draws text with its baseline at y.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.dc.SetFontFace(c.faces.face(style.Font, style.FontSize))
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0)
}

// MeasureText returns the rendered size of text in the given style.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.dc.SetFontFace(c.faces.face(style.Font, style.FontSize))
	return c.dc.MeasureString(text)
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	c.dc.Stroke()
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
