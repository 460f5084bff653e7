package ports

import "github.com/user/photoinsight/pkg/pipeline"

// ExifReader extracts camera metadata from encoded image bytes.
type ExifReader interface {
	// Read returns nil without error when the data carries no EXIF block.
	Read(data []byte) (*pipeline.ExifSnapshot, error)
}
