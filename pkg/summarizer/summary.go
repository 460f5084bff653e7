package summarizer

import (
	"time"

	"github.com/user/photoinsight/pkg/pipeline"
)

// Summary contains everything reported about one run.
type Summary struct {
	GeneratedAt time.Time

	Photo       PhotoInfo
	Scores      pipeline.ScoreSet
	Tier        TierInfo
	Exif        *pipeline.ExifSnapshot
	Card        CardInfo
	Compression CompressionInfo
	Export      ExportInfo
}

// PhotoInfo describes the evaluated photo.
type PhotoInfo struct {
	Title  string
	Source string
	Tags   []string
}

// TierInfo is the tier the overall score falls into.
type TierInfo struct {
	ID    string
	Label string
}

// CardInfo describes the rendered share card.
type CardInfo struct {
	Width          int
	Height         int
	Bytes          int
	DiagnosisLines int
}

// CompressionInfo describes the upload compression.
type CompressionInfo struct {
	OriginalBytes   int64
	CompressedBytes int64
	Unchanged       bool
	Quality         int
	Attempts        int
	Degraded        bool
	Width           int
	Height          int
}

// Ratio returns compressed/original, or 1 when nothing was compressed.
func (c CompressionInfo) Ratio() float64 {
	if c.OriginalBytes <= 0 || c.Unchanged {
		return 1
	}
	return float64(c.CompressedBytes) / float64(c.OriginalBytes)
}

// ExportInfo describes where the card went.
type ExportInfo struct {
	Saved    bool
	Method   string
	Location string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithPhoto sets photo information.
func (b *Builder) WithPhoto(title, source string, tags []string) *Builder {
	b.summary.Photo = PhotoInfo{Title: title, Source: source, Tags: tags}
	return b
}

// WithScores sets the evaluation scores.
func (b *Builder) WithScores(scores pipeline.ScoreSet) *Builder {
	b.summary.Scores = scores
	return b
}

// WithTier sets the tier.
func (b *Builder) WithTier(id, label string) *Builder {
	b.summary.Tier = TierInfo{ID: id, Label: label}
	return b
}

// WithExif sets camera metadata. nil means the photo carried none.
func (b *Builder) WithExif(exif *pipeline.ExifSnapshot) *Builder {
	b.summary.Exif = exif
	return b
}

// WithCard sets share-card information from a layout and its encoded size.
func (b *Builder) WithCard(layout pipeline.CardLayout, bytes int) *Builder {
	b.summary.Card = CardInfo{
		Width:          layout.Size.Width,
		Height:         layout.Size.Height,
		Bytes:          bytes,
		DiagnosisLines: layout.DiagnosisLines,
	}
	return b
}

// WithCompression sets compression information.
func (b *Builder) WithCompression(originalBytes int64, result pipeline.CompressionResult) *Builder {
	b.summary.Compression = CompressionInfo{
		OriginalBytes:   originalBytes,
		CompressedBytes: result.File.Size(),
		Unchanged:       result.Unchanged,
		Quality:         result.Quality,
		Attempts:        result.Attempts,
		Degraded:        result.Degraded,
		Width:           result.Width,
		Height:          result.Height,
	}
	return b
}

// WithExport sets export information.
func (b *Builder) WithExport(result pipeline.ExportResult) *Builder {
	b.summary.Export = ExportInfo{Saved: result.Saved, Method: result.Method, Location: result.Location}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
