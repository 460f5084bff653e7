// Package exifreader extracts camera metadata using goexif.
package exifreader

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

// Reader implements ports.ExifReader.
type Reader struct{}

// New creates a new Reader.
func New() *Reader {
	return &Reader{}
}

// Read decodes the EXIF block of a JPEG or TIFF.
// Data without EXIF, or whose EXIF carries none of the card fields, yields nil.
func (r *Reader) Read(data []byte) (*pipeline.ExifSnapshot, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		// Missing EXIF is normal for PNG, WebP and re-encoded images.
		return nil, nil
	}

	snap := &pipeline.ExifSnapshot{
		Camera:       camera(stringTag(x, exif.Make), stringTag(x, exif.Model)),
		Aperture:     rationalTag(x, exif.FNumber, FormatAperture),
		ShutterSpeed: rationalTag(x, exif.ExposureTime, FormatShutter),
		FocalLength:  rationalTag(x, exif.FocalLength, FormatFocalLength),
	}
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil && iso > 0 {
			snap.ISO = FormatISO(iso)
		}
	}
	if t, err := x.DateTime(); err == nil {
		snap.CaptureDate = &t
	}

	if *snap == (pipeline.ExifSnapshot{}) {
		return nil, nil
	}
	return snap, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.Trim(s, "\x00 ")
}

func rationalTag(x *exif.Exif, name exif.FieldName, format func(num, den int64) string) string {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.RatVal {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 || num <= 0 {
		return ""
	}
	return format(num, den)
}

// camera joins make and model, dropping the make when the model already
// starts with it ("Canon" + "Canon EOS R5").
func camera(maker, model string) string {
	switch {
	case model == "":
		return maker
	case maker == "" || strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)):
		return model
	default:
		return maker + " " + model
	}
}

// FormatAperture renders an f-number as "f/1.8".
func FormatAperture(num, den int64) string {
	return "f/" + oneDecimal(float64(num)/float64(den))
}

// FormatShutter renders an exposure time as "1/250s" or "2s".
func FormatShutter(num, den int64) string {
	v := float64(num) / float64(den)
	if v >= 1 {
		return oneDecimal(v) + "s"
	}
	return fmt.Sprintf("1/%ds", int64(math.Round(1/v)))
}

// FormatFocalLength renders a focal length as "35mm".
func FormatFocalLength(num, den int64) string {
	return oneDecimal(float64(num)/float64(den)) + "mm"
}

// FormatISO renders an ISO speed as "ISO 200".
func FormatISO(iso int) string {
	return "ISO " + strconv.Itoa(iso)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// Ensure Reader implements ports.ExifReader
var _ ports.ExifReader = (*Reader)(nil)
