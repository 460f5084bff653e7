// Package layout implements the share-card layout stage.
package layout

import (
	"context"
	"math"

	"github.com/user/photoinsight/pkg/pipeline"
)

// Section heights of a card, top to bottom.
const (
	PhotoGap            = 60
	TitleRowHeight      = 160
	TagsHeight          = 100
	ExifHeight          = 120
	GridHeight          = 340
	DiagnosisLineHeight = 64
	DiagnosisPadding    = 100
	FooterHeight        = 180

	// MaxPhotoAspect caps the photo box height at this multiple of its width.
	MaxPhotoAspect = 1.25
)

// Stage calculates the card layout.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the card layout from the measured content.
func (s *Stage) Execute(ctx context.Context, input pipeline.CardLayoutInput) (pipeline.CardLayout, error) {
	return ComputeCardLayout(input), nil
}

// ComputeCardLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// The card height is the sum of its sections:
//
//	padding + photo + gap + title row + [tags] + [exif] + grid + diagnosis + footer
//
// Tags and EXIF contribute nothing when absent. All rectangles are absolute
// canvas coordinates.
func ComputeCardLayout(input pipeline.CardLayoutInput) pipeline.CardLayout {
	defaults := pipeline.DefaultCardLayoutInput()
	if input.Width <= 0 {
		input.Width = defaults.Width
	}
	if input.Padding < 0 {
		input.Padding = defaults.Padding
	}
	if input.DiagnosisLines < 0 {
		input.DiagnosisLines = 0
	}

	contentWidth := input.Width - input.Padding*2
	photoHeight, crop := photoBox(contentWidth, input.PhotoWidth, input.PhotoHeight)

	section := func(y, h int) pipeline.Rectangle {
		return pipeline.Rectangle{X: input.Padding, Y: y, Width: contentWidth, Height: h}
	}

	out := pipeline.CardLayout{
		ContentWidth:   contentWidth,
		Photo:          section(input.Padding, photoHeight),
		PhotoCrop:      crop,
		DiagnosisLines: input.DiagnosisLines,
	}

	y := out.Photo.Bottom() + PhotoGap
	out.TitleRow = section(y, TitleRowHeight)
	y = out.TitleRow.Bottom()

	if input.HasTags {
		out.Tags = section(y, TagsHeight)
		y = out.Tags.Bottom()
	}
	if input.HasExif {
		out.Exif = section(y, ExifHeight)
		y = out.Exif.Bottom()
	}

	out.Grid = section(y, GridHeight)
	y = out.Grid.Bottom()

	out.Diagnosis = section(y, input.DiagnosisLines*DiagnosisLineHeight+DiagnosisPadding)
	y = out.Diagnosis.Bottom()

	out.Footer = section(y, FooterHeight)

	out.Size = pipeline.Dimension{
		Width:  input.Width,
		Height: out.Footer.Bottom(),
	}
	return out
}

// photoBox returns the display height of a photo drawn at boxWidth and the
// native-resolution region that fills the box. The height follows the photo
// aspect up to MaxPhotoAspect; taller photos are center-cropped.
// Unknown dimensions produce a square box.
func photoBox(boxWidth, photoWidth, photoHeight int) (int, pipeline.Rectangle) {
	if photoWidth <= 0 || photoHeight <= 0 {
		return boxWidth, pipeline.Rectangle{}
	}

	maxHeight := int(math.Round(float64(boxWidth) * MaxPhotoAspect))
	height := int(math.Round(float64(boxWidth) * float64(photoHeight) / float64(photoWidth)))
	if height < 1 {
		height = 1
	}

	crop := pipeline.Rectangle{Width: photoWidth, Height: photoHeight}
	if height > maxHeight {
		height = maxHeight
		cropHeight := int(math.Round(float64(photoWidth) * float64(maxHeight) / float64(boxWidth)))
		if cropHeight > photoHeight {
			cropHeight = photoHeight
		}
		crop.Y = (photoHeight - cropHeight) / 2
		crop.Height = cropHeight
	}
	return height, crop
}
