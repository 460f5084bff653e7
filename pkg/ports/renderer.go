// Package ports defines interfaces for the rendering, loading and export
// dependencies of the share-card and compression pipelines.
package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts bitmap decoding, encoding and canvas creation.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes image data into an image.Image.
	// FormatAuto sniffs the encoding from the data.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	// Quality is a JPEG quality in percent and is ignored for PNG.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resamples an image to the specified dimensions with a high-quality filter.
	ResizeImage(img image.Image, width, height int) image.Image

	// CropImage copies the given region of img into a new zero-origin image.
	CropImage(img image.Image, region image.Rectangle) image.Image
}

// Canvas provides immediate-mode drawing operations for a single raster.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawImageRounded draws an image scaled into the box, clipped to a rounded rectangle.
	DrawImageRounded(img image.Image, x, y, width, height, radius int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawRoundedRect draws a filled rounded rectangle.
	DrawRoundedRect(x, y, w, h, radius int, c color.Color)

	// DrawText draws text with its baseline at y.
	// The horizontal anchor at x is given by style.Align.
	DrawText(text string, x, y int, style TextStyle)

	// MeasureText returns the width and height of the text.
	MeasureText(text string, style TextStyle) (width, height float64)

	// DrawLine draws a line between two points.
	DrawLine(x1, y1, x2, y2 int, c color.Color, width float64)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	Font     FontRole
	Color    color.Color
	Align    TextAlign
}

// FontRole selects one of the renderer's loaded typefaces.
type FontRole int

const (
	FontSans FontRole = iota
	FontSansMedium
	FontSansBold
	FontMono
	FontMonoBold
)

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	FormatAuto
)

// MIMEType returns the media type written for the format.
func (f ImageFormat) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}
