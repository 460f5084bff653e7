package mocks

import (
	"image"
	"image/color"
	"sync"
	"unicode/utf8"

	"github.com/user/photoinsight/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Canvases it creates are recorded in Canvases.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image
	CropImageFunc    func(img image.Image, region image.Rectangle) image.Image

	mu       sync.Mutex
	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := NewCanvas(width, height)
	c.Background = bg
	m.mu.Lock()
	m.Canvases = append(m.Canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) CropImage(img image.Image, region image.Rectangle) image.Image {
	if m.CropImageFunc != nil {
		return m.CropImageFunc(img, region)
	}
	return image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
}

// LastCanvas returns the most recently created canvas, or nil.
func (m *Renderer) LastCanvas() *Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Canvases) == 0 {
		return nil
	}
	return m.Canvases[len(m.Canvases)-1]
}

var _ ports.Renderer = (*Renderer)(nil)

// DrawnText records one DrawText call.
type DrawnText struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

// DrawnRect records one DrawRect or DrawRoundedRect call.
type DrawnRect struct {
	X, Y, W, H int
	Radius     int
	Color      color.Color
}

// DrawnImage records one DrawImage or DrawImageRounded call.
type DrawnImage struct {
	X, Y, W, H int
	Radius     int
}

// Canvas is a mock implementation of ports.Canvas that records draw calls.
// MeasureText defaults to half the font size per rune.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA

	Background      color.Color
	MeasureTextFunc func(text string, style ports.TextStyle) (float64, float64)

	Texts  []DrawnText
	Rects  []DrawnRect
	Images []DrawnImage
	Lines  int
}

// NewCanvas creates a recording canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	m.Images = append(m.Images, DrawnImage{X: x, Y: y, W: b.Dx(), H: b.Dy()})
}

func (m *Canvas) DrawImageRounded(img image.Image, x, y, width, height, radius int) {
	m.Images = append(m.Images, DrawnImage{X: x, Y: y, W: width, H: height, Radius: radius})
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.Rects = append(m.Rects, DrawnRect{X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawRoundedRect(x, y, w, h, radius int, c color.Color) {
	m.Rects = append(m.Rects, DrawnRect{X: x, Y: y, W: w, H: h, Radius: radius, Color: c})
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, DrawnText{Text: text, X: x, Y: y, Style: style})
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	if m.MeasureTextFunc != nil {
		return m.MeasureTextFunc(text, style)
	}
	return float64(utf8.RuneCountInString(text)) * style.FontSize / 2, style.FontSize
}

func (m *Canvas) DrawLine(x1, y1, x2, y2 int, c color.Color, width float64) {
	m.Lines++
}

func (m *Canvas) ToImage() image.Image {
	if m.img != nil {
		return m.img
	}
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

// FindText returns the first recorded text equal to s.
func (m *Canvas) FindText(s string) (DrawnText, bool) {
	for _, t := range m.Texts {
		if t.Text == s {
			return t, true
		}
	}
	return DrawnText{}, false
}

var _ ports.Canvas = (*Canvas)(nil)
