package layout

import (
	"context"
	"testing"

	"github.com/user/photoinsight/pkg/pipeline"
)

func TestComputeCardLayout_Height(t *testing.T) {
	tests := []struct {
		name           string
		hasTags        bool
		hasExif        bool
		diagnosisLines int
		wantHeight     int
	}{
		// 72 + 936 + 60 + 160 + 340 + (1*64+100) + 180
		{name: "bare", diagnosisLines: 1, wantHeight: 1912},
		{name: "with tags", hasTags: true, diagnosisLines: 1, wantHeight: 2012},
		{name: "with exif", hasExif: true, diagnosisLines: 1, wantHeight: 2032},
		{name: "with tags and exif", hasTags: true, hasExif: true, diagnosisLines: 3, wantHeight: 2260},
		{name: "no diagnosis lines", diagnosisLines: 0, wantHeight: 1848},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := pipeline.DefaultCardLayoutInput()
			input.PhotoWidth = 1000
			input.PhotoHeight = 1000
			input.HasTags = tt.hasTags
			input.HasExif = tt.hasExif
			input.DiagnosisLines = tt.diagnosisLines

			got := ComputeCardLayout(input)
			if got.Size.Height != tt.wantHeight {
				t.Errorf("height = %d, want %d", got.Size.Height, tt.wantHeight)
			}
			if got.Size.Width != 1080 {
				t.Errorf("width = %d, want 1080", got.Size.Width)
			}
		})
	}
}

func TestComputeCardLayout_SkippedSections(t *testing.T) {
	input := pipeline.DefaultCardLayoutInput()
	input.PhotoWidth = 1200
	input.PhotoHeight = 800
	input.DiagnosisLines = 2

	got := ComputeCardLayout(input)

	if got.Tags != (pipeline.Rectangle{}) {
		t.Errorf("tags should be empty, got %+v", got.Tags)
	}
	if got.Exif != (pipeline.Rectangle{}) {
		t.Errorf("exif should be empty, got %+v", got.Exif)
	}
	if got.Grid.Y != got.TitleRow.Bottom() {
		t.Errorf("grid should follow the title row: grid.Y=%d, title bottom=%d", got.Grid.Y, got.TitleRow.Bottom())
	}
}

func TestComputeCardLayout_SectionsAreContiguous(t *testing.T) {
	input := pipeline.DefaultCardLayoutInput()
	input.PhotoWidth = 3000
	input.PhotoHeight = 2000
	input.HasTags = true
	input.HasExif = true
	input.DiagnosisLines = 4

	got := ComputeCardLayout(input)

	if got.ContentWidth != 936 {
		t.Errorf("content width = %d, want 936", got.ContentWidth)
	}
	if got.Photo.Y != 72 || got.Photo.X != 72 {
		t.Errorf("photo origin = (%d,%d), want (72,72)", got.Photo.X, got.Photo.Y)
	}
	if got.TitleRow.Y != got.Photo.Bottom()+PhotoGap {
		t.Errorf("title row y = %d, want %d", got.TitleRow.Y, got.Photo.Bottom()+PhotoGap)
	}

	chain := []pipeline.Rectangle{got.TitleRow, got.Tags, got.Exif, got.Grid, got.Diagnosis, got.Footer}
	for i := 1; i < len(chain); i++ {
		if chain[i].Y != chain[i-1].Bottom() {
			t.Errorf("section %d starts at %d, previous ends at %d", i, chain[i].Y, chain[i-1].Bottom())
		}
		if chain[i].Width != got.ContentWidth {
			t.Errorf("section %d width = %d, want %d", i, chain[i].Width, got.ContentWidth)
		}
	}
	if got.Diagnosis.Height != 4*DiagnosisLineHeight+DiagnosisPadding {
		t.Errorf("diagnosis height = %d", got.Diagnosis.Height)
	}
	if got.Size.Height != got.Footer.Bottom() {
		t.Errorf("height = %d, footer bottom = %d", got.Size.Height, got.Footer.Bottom())
	}
}

func TestComputeCardLayout_PhotoBox(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantHeight int
		wantCrop   pipeline.Rectangle
	}{
		{
			name:       "landscape keeps aspect",
			w:          4000,
			h:          3000,
			wantHeight: 702,
			wantCrop:   pipeline.Rectangle{Width: 4000, Height: 3000},
		},
		{
			name:       "portrait at the cap",
			w:          4000,
			h:          5000,
			wantHeight: 1170,
			wantCrop:   pipeline.Rectangle{Width: 4000, Height: 5000},
		},
		{
			name:       "tall portrait is center cropped",
			w:          3000,
			h:          6000,
			wantHeight: 1170,
			wantCrop:   pipeline.Rectangle{Y: 1125, Width: 3000, Height: 3750},
		},
		{
			name:       "unknown size is square",
			wantHeight: 936,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := pipeline.DefaultCardLayoutInput()
			input.PhotoWidth = tt.w
			input.PhotoHeight = tt.h

			got := ComputeCardLayout(input)
			if got.Photo.Height != tt.wantHeight {
				t.Errorf("photo height = %d, want %d", got.Photo.Height, tt.wantHeight)
			}
			if got.PhotoCrop != tt.wantCrop {
				t.Errorf("photo crop = %+v, want %+v", got.PhotoCrop, tt.wantCrop)
			}
		})
	}
}

func TestComputeCardLayout_Defaults(t *testing.T) {
	got := ComputeCardLayout(pipeline.CardLayoutInput{Padding: -1, DiagnosisLines: -2})
	if got.Size.Width != 1080 || got.ContentWidth != 936 {
		t.Errorf("defaults not applied: %+v", got.Size)
	}
	if got.DiagnosisLines != 0 {
		t.Errorf("negative line count should clamp to 0, got %d", got.DiagnosisLines)
	}
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage()
	input := pipeline.DefaultCardLayoutInput()
	input.PhotoWidth = 1000
	input.PhotoHeight = 1000
	input.DiagnosisLines = 1

	got, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ComputeCardLayout(input) {
		t.Error("Execute should match ComputeCardLayout")
	}
}
