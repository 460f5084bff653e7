package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/user/photoinsight/pkg/ports"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func isRedish(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xc000 && g < 0x4000 && b < 0x4000
}

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 100, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	img := canvas.ToImage()
	bounds := img.Bounds()

	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodeJPEG(t *testing.T) {
	r := New()

	img := solid(50, 50, color.RGBA{R: 255, A: 255})

	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}

	decoded, err := r.DecodeImage(data, ports.FormatJPEG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodePNG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 30, 30))

	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	decoded, err := r.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 30 {
		t.Errorf("expected 30x30, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_DecodeAutoGIF(t *testing.T) {
	r := New()

	var buf bytes.Buffer
	if err := gif.Encode(&buf, solid(12, 8, color.White), nil); err != nil {
		t.Fatalf("gif.Encode failed: %v", err)
	}

	decoded, err := r.DecodeImage(buf.Bytes(), ports.FormatAuto)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if decoded.Bounds().Dx() != 12 || decoded.Bounds().Dy() != 8 {
		t.Errorf("expected 12x8, got %v", decoded.Bounds())
	}
}

func TestRenderer_DecodeGarbage(t *testing.T) {
	r := New()
	if _, err := r.DecodeImage([]byte("not an image"), ports.FormatAuto); err == nil {
		t.Error("expected decode error")
	}
}

func TestRenderer_JPEGQualityAffectsSize(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x * y) % 256), A: 255})
		}
	}

	high, err := r.EncodeImage(img, ports.FormatJPEG, 95)
	if err != nil {
		t.Fatal(err)
	}
	low, err := r.EncodeImage(img, ports.FormatJPEG, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 50 (%d bytes) should be smaller than quality 95 (%d bytes)", len(low), len(high))
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	resized := r.ResizeImage(img, 50, 25)

	bounds := resized.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 25 {
		t.Errorf("expected 50x25, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_CropImage(t *testing.T) {
	r := New()

	img := solid(40, 40, color.White)
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	cropped := r.CropImage(img, image.Rect(10, 10, 20, 20))
	if cropped.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("expected zero-origin 10x10, got %v", cropped.Bounds())
	}
	if !isRedish(cropped.At(5, 5)) {
		t.Error("expected cropped region to be red")
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()

	if !isRedish(img.At(20, 20)) {
		t.Error("expected red pixel inside rectangle")
	}
	if isRedish(img.At(60, 60)) {
		t.Error("expected white pixel outside rectangle")
	}
}

func TestCanvas_DrawRoundedRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRoundedRect(0, 0, 100, 100, 30, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	if !isRedish(img.At(50, 50)) {
		t.Error("expected red pixel at center")
	}
	if isRedish(img.At(1, 1)) {
		t.Error("expected corner to stay outside the rounded rectangle")
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawImage(solid(20, 20, color.RGBA{R: 255, A: 255}), 10, 10)

	img := canvas.ToImage()

	if !isRedish(img.At(15, 15)) {
		t.Error("expected red pixel from drawn image")
	}
}

func TestCanvas_DrawImageRounded(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	// 10x10 source scaled into an 80x80 box
	canvas.DrawImageRounded(solid(10, 10, color.RGBA{R: 255, A: 255}), 10, 10, 80, 80, 24)

	img := canvas.ToImage()
	if !isRedish(img.At(50, 50)) {
		t.Error("expected red pixel inside the box")
	}
	if isRedish(img.At(11, 11)) {
		t.Error("expected rounded corner to be clipped")
	}

	// Clip must not leak into later draws.
	canvas.DrawRect(0, 0, 5, 5, color.RGBA{R: 255, A: 255})
	if !isRedish(canvas.ToImage().At(2, 2)) {
		t.Error("expected clip to be reset after drawing")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawLine(0, 50, 100, 50, color.Black, 2)

	img := canvas.ToImage()

	c := img.At(50, 50)
	r1, g1, b1, _ := c.RGBA()
	if r1 == 65535 && g1 == 65535 && b1 == 65535 {
		t.Error("expected non-white pixel on line")
	}
}

func TestCanvas_MeasureText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(1, 1, color.White)

	small := ports.TextStyle{FontSize: 14, Font: ports.FontSans}
	large := ports.TextStyle{FontSize: 42, Font: ports.FontSans}

	ws, _ := canvas.MeasureText("PhotoInsight", small)
	wl, _ := canvas.MeasureText("PhotoInsight", large)
	if ws <= 0 {
		t.Fatalf("expected positive width, got %v", ws)
	}
	if wl <= ws {
		t.Errorf("42px width %v should exceed 14px width %v", wl, ws)
	}

	mono := ports.TextStyle{FontSize: 20, Font: ports.FontMono}
	wi, _ := canvas.MeasureText("iiii", mono)
	wm, _ := canvas.MeasureText("MMMM", mono)
	if wi != wm {
		t.Errorf("monospace widths differ: %v vs %v", wi, wm)
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 50, color.White)

	style := ports.TextStyle{
		FontSize: 24,
		Font:     ports.FontSansBold,
		Color:    color.Black,
		Align:    ports.AlignCenter,
	}

	canvas.DrawText("Hello World", 100, 35, style)

	img := canvas.ToImage()
	dark := false
	for y := 0; y < 50 && !dark; y++ {
		for x := 0; x < 200; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && b < 0x8000 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("expected text pixels on the canvas")
	}
}

func TestNewWithFonts_RejectsInvalidData(t *testing.T) {
	if _, err := NewWithFonts(map[ports.FontRole][]byte{ports.FontSans: []byte("nope")}); err == nil {
		t.Error("expected parse error for invalid font data")
	}
}

func TestNewWithFonts_SkipsEmptyOverride(t *testing.T) {
	r, err := NewWithFonts(map[ports.FontRole][]byte{ports.FontSans: nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected renderer")
	}
}
