// Package export implements the share-card export stage.
//
// A rendered card leaves the system through one of two strategies: a
// native share surface on mobile platforms, or a file written into the
// download directory everywhere else.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

// ErrExportFailure marks every failed export. It is logged, never returned
// past Export.
var ErrExportFailure = errors.New("export failed")

// Platform identifies the device class the exporter runs for.
type Platform string

const (
	PlatformDesktop Platform = "desktop"
	PlatformMobile  Platform = "mobile"
)

// ParsePlatform maps a config value to a Platform. Unknown values are desktop.
func ParsePlatform(s string) Platform {
	if strings.EqualFold(strings.TrimSpace(s), string(PlatformMobile)) {
		return PlatformMobile
	}
	return PlatformDesktop
}

// Export methods reported in pipeline.ExportResult.
const (
	MethodShare    = "share"
	MethodDownload = "download"
)

const fallbackName = "insight"

// Config holds exporter settings.
type Config struct {
	Platform    Platform
	DownloadDir string
	Now         func() time.Time // nil means time.Now
}

// Exporter saves or shares rendered cards.
type Exporter struct {
	share  ports.ShareTarget // nil when the platform has no share surface
	fs     ports.FileSystem
	logger ports.Logger
	config Config
}

// New creates a new Exporter. share may be nil.
func New(share ports.ShareTarget, fs ports.FileSystem, logger ports.Logger, config Config) *Exporter {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.DownloadDir == "" {
		config.DownloadDir = "."
	}
	return &Exporter{
		share:  share,
		fs:     fs,
		logger: logger.WithComponent("export"),
		config: config,
	}
}

// Export saves or shares the card and reports whether it succeeded.
func (e *Exporter) Export(ctx context.Context, input pipeline.ExportInput) bool {
	result, _ := e.Execute(ctx, input)
	return result.Saved
}

// Execute implements pipeline.Stage. The error is always nil; failures are
// logged and reported through ExportResult.Saved.
func (e *Exporter) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	result, err := e.export(ctx, input)
	if err != nil {
		e.logger.Error("Export failed: %s", err.Error())
		return pipeline.ExportResult{}, nil
	}
	return result, nil
}

func (e *Exporter) export(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	payload, err := datauri.Decode(input.DataURI)
	if err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("%w: %w", ErrExportFailure, err)
	}

	file := ports.SharedFile{
		Name:     FileName(input.Title, e.config.Now()),
		MIMEType: "image/jpeg",
		Data:     payload.Data,
	}

	if e.config.Platform == PlatformMobile && e.share != nil && e.share.CanShare(file) {
		e.logger.Debug("Sharing %s (%d bytes)", file.Name, len(file.Data))
		if err := e.share.Share(ctx, file); err != nil {
			return pipeline.ExportResult{}, fmt.Errorf("%w: share: %w", ErrExportFailure, err)
		}
		return pipeline.ExportResult{Saved: true, Method: MethodShare, Location: file.Name}, nil
	}

	path, err := e.download(file)
	if err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("%w: download: %w", ErrExportFailure, err)
	}
	return pipeline.ExportResult{Saved: true, Method: MethodDownload, Location: path}, nil
}

// download writes the file under a temporary name and renames it into
// place. The temporary file never outlives the call.
func (e *Exporter) download(file ports.SharedFile) (string, error) {
	if err := e.fs.MkdirAll(e.config.DownloadDir); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	final := filepath.Join(e.config.DownloadDir, file.Name)
	temp := filepath.Join(e.config.DownloadDir, "."+file.Name+".part")

	e.logger.Debug("Writing %s (%d bytes)", final, len(file.Data))

	renamed := false
	defer func() {
		if !renamed {
			e.fs.Remove(temp)
		}
	}()

	if err := e.fs.WriteFile(temp, file.Data); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := e.fs.Rename(temp, final); err != nil {
		return "", fmt.Errorf("rename file: %w", err)
	}
	renamed = true
	return final, nil
}

// FileName builds photoinsight_<title>_<unix millis>.jpg. Characters that
// are unsafe in file names become underscores; an empty title becomes
// "insight".
func FileName(title string, now time.Time) string {
	return fmt.Sprintf("photoinsight_%s_%d.jpg", sanitize(title), now.UnixMilli())
}

func sanitize(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return fallbackName
	}
	return name
}
