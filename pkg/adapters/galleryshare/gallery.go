// Package galleryshare implements ports.ShareTarget by saving shared images
// into a gallery directory, the way a phone's "save to photos" action does.
package galleryshare

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/user/photoinsight/pkg/ports"
)

// ErrUnsupported is returned when Share is handed a file CanShare rejects.
var ErrUnsupported = errors.New("file cannot be shared to the gallery")

// Gallery saves shared images under Dir.
type Gallery struct {
	fs  ports.FileSystem
	dir string
}

// New creates a Gallery rooted at dir.
func New(fs ports.FileSystem, dir string) *Gallery {
	return &Gallery{fs: fs, dir: dir}
}

// Dir returns the gallery directory.
func (g *Gallery) Dir() string {
	return g.dir
}

// CanShare accepts non-empty image files.
func (g *Gallery) CanShare(file ports.SharedFile) bool {
	return len(file.Data) > 0 && strings.HasPrefix(file.MIMEType, "image/")
}

// Share writes the file into the gallery. An existing file with the same
// name is kept and the new one gets a short random suffix.
func (g *Gallery) Share(ctx context.Context, file ports.SharedFile) error {
	if !g.CanShare(file) {
		return ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(file.Name)
	if name == "." || name == string(filepath.Separator) {
		name = uuid.NewString() + ".jpg"
	}
	path := filepath.Join(g.dir, name)

	exists, err := g.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("stat gallery file: %w", err)
	}
	if exists {
		ext := filepath.Ext(name)
		path = filepath.Join(g.dir, strings.TrimSuffix(name, ext)+"-"+uuid.NewString()[:8]+ext)
	}

	if err := g.fs.WriteFile(path, file.Data); err != nil {
		return fmt.Errorf("save to gallery: %w", err)
	}
	return nil
}

var _ ports.ShareTarget = (*Gallery)(nil)
