// Package orchestrator coordinates the upload, render and export stages.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/scoring"
)

// ErrNoCard is returned by Run when the share card could not be rendered.
var ErrNoCard = errors.New("share card was not generated")

// Config contains orchestration settings.
type Config struct {
	TargetMB float64 // byte budget for uploads; 0 means pipeline.DefaultTargetMB
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{TargetMB: pipeline.DefaultTargetMB}
}

// Orchestrator coordinates the execution of the pipeline stages.
type Orchestrator struct {
	exif          ports.ExifReader
	compressStage pipeline.Stage[pipeline.CompressionRequest, pipeline.CompressionResult]
	cardStage     pipeline.Stage[pipeline.ShareCardRequest, pipeline.ShareCardResult]
	exportStage   pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	logger        ports.Logger
	config        Config
}

// New creates a new Orchestrator.
func New(
	exif ports.ExifReader,
	compressStage pipeline.Stage[pipeline.CompressionRequest, pipeline.CompressionResult],
	cardStage pipeline.Stage[pipeline.ShareCardRequest, pipeline.ShareCardResult],
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	logger ports.Logger,
	config Config,
) *Orchestrator {
	if config.TargetMB <= 0 {
		config.TargetMB = pipeline.DefaultTargetMB
	}
	return &Orchestrator{
		exif:          exif,
		compressStage: compressStage,
		cardStage:     cardStage,
		exportStage:   exportStage,
		logger:        logger,
		config:        config,
	}
}

// Upload is a file ready to be sent to the analysis service.
type Upload struct {
	File        pipeline.ImageFile
	Exif        *pipeline.ExifSnapshot // nil when the original carried none
	Compression pipeline.CompressionResult
}

// PrepareUpload reads EXIF from the original bytes, then compresses the
// file. Re-encoding drops metadata, so the order matters.
// EXIF failures are logged and yield a nil snapshot.
func (o *Orchestrator) PrepareUpload(ctx context.Context, file pipeline.ImageFile) (Upload, error) {
	o.logger.Info("Preparing upload %s (%d bytes)", file.Name, file.Size())

	snapshot, err := o.exif.Read(file.Data)
	switch {
	case err != nil:
		o.logger.Warn("Could not read EXIF from %s: %s", file.Name, err.Error())
		snapshot = nil
	case snapshot == nil:
		o.logger.Info("No EXIF metadata in %s", file.Name)
	default:
		o.logger.Info("EXIF: %s", describeExif(snapshot))
	}

	compressed, err := o.compressStage.Execute(ctx, pipeline.CompressionRequest{File: file, TargetMB: o.config.TargetMB})
	if err != nil {
		return Upload{}, fmt.Errorf("compress stage: %w", err)
	}
	if compressed.Unchanged {
		o.logger.Info("Upload unchanged: %s", compressed.File.Name)
	} else {
		o.logger.Info("Upload ready: %s, %d bytes (quality %d, %d attempts)",
			compressed.File.Name, compressed.File.Size(), compressed.Quality, compressed.Attempts)
	}

	return Upload{File: compressed.File, Exif: snapshot, Compression: compressed}, nil
}

// Render draws the share card and returns the full stage result.
func (o *Orchestrator) Render(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
	o.logger.Info("Generating share card for %s", titleOf(req))
	result, err := o.cardStage.Execute(ctx, req)
	if err != nil {
		o.logger.Warn("Share card failed: %s", err.Error())
		o.logger.Error("Generation failed, please retry")
		return pipeline.ShareCardResult{}, fmt.Errorf("share card stage: %w", err)
	}
	o.logger.Info("Share card ready: %dx%d, tier %s", result.Layout.Size.Width, result.Layout.Size.Height, result.TierID)
	return result, nil
}

// RenderShareCard returns the card as a JPEG data URI, or "" on failure.
func (o *Orchestrator) RenderShareCard(ctx context.Context, req pipeline.ShareCardRequest) string {
	result, err := o.Render(ctx, req)
	if err != nil {
		return ""
	}
	return result.DataURI
}

// ShareCard renders the card and hands it to the exporter.
// It reports whether the card ended up saved or shared.
func (o *Orchestrator) ShareCard(ctx context.Context, req pipeline.ShareCardRequest) bool {
	uri := o.RenderShareCard(ctx, req)
	if uri == "" {
		return false
	}
	return o.ExportCard(ctx, uri, req.Title)
}

// ExportCard hands an already rendered card to the exporter.
func (o *Orchestrator) ExportCard(ctx context.Context, uri, title string) bool {
	return o.export(ctx, uri, title).Saved
}

func (o *Orchestrator) export(ctx context.Context, uri, title string) pipeline.ExportResult {
	exported, err := o.exportStage.Execute(ctx, pipeline.ExportInput{DataURI: uri, Title: title})
	if err != nil || !exported.Saved {
		o.logger.Error("Save failed, please long-press to save manually")
		return pipeline.ExportResult{}
	}
	o.logger.Info("Saved via %s: %s", exported.Method, exported.Location)
	return exported
}

// RunInput describes a full local run: an upload followed by its card.
type RunInput struct {
	File    pipeline.ImageFile
	Request pipeline.ShareCardRequest // Source is filled from File when empty
	Export  bool
}

// Run prepares the upload, renders the card from the prepared bytes and
// optionally exports it. The returned RunResult feeds the summary report.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) (RunResult, error) {
	start := time.Now()

	upload, err := o.PrepareUpload(ctx, in.File)
	if err != nil {
		return RunResult{}, err
	}

	req := in.Request
	if req.Source == "" {
		req.Source = datauri.Encode(upload.File.MIMEType, upload.File.Data)
	}
	if req.Exif == nil {
		req.Exif = upload.Exif
	}

	card, err := o.Render(ctx, req)
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: %w", ErrNoCard, err)
	}

	result := RunResult{
		Title:         req.Title,
		Source:        in.File.Name,
		Tags:          req.Tags,
		Scores:        req.Scores,
		Tier:          tierOf(card.TierID),
		Exif:          req.Exif,
		Card:          card,
		CardBytes:     cardBytes(card.DataURI),
		OriginalBytes: in.File.Size(),
		Compression:   upload.Compression,
	}

	if in.Export {
		result.Export = o.export(ctx, card.DataURI, req.Title)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	Title  string
	Source string
	Tags   []string
	Scores pipeline.ScoreSet
	Tier   scoring.Tier
	Exif   *pipeline.ExifSnapshot

	Card      pipeline.ShareCardResult
	CardBytes int

	OriginalBytes int64
	Compression   pipeline.CompressionResult

	Export   pipeline.ExportResult
	Duration time.Duration
}

func titleOf(req pipeline.ShareCardRequest) string {
	if req.Title == "" {
		return "untitled"
	}
	return req.Title
}

func describeExif(e *pipeline.ExifSnapshot) string {
	s := e.Camera
	for _, part := range []string{e.FocalLength, e.Aperture, e.ShutterSpeed, e.ISO} {
		if part == "" {
			continue
		}
		if s != "" {
			s += " "
		}
		s += part
	}
	return s
}

func tierOf(id string) scoring.Tier {
	for _, t := range scoring.Tiers() {
		if t.ID == id {
			return t
		}
	}
	return scoring.Tier{ID: id}
}

func cardBytes(uri string) int {
	p, err := datauri.Decode(uri)
	if err != nil {
		return 0
	}
	return len(p.Data)
}
