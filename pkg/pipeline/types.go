package pipeline

import (
	"image"
	"image/color"
	"time"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bottom returns the y coordinate just below the rectangle.
func (r Rectangle) Bottom() int {
	return r.Y + r.Height
}

// Right returns the x coordinate just right of the rectangle.
func (r Rectangle) Right() int {
	return r.X + r.Width
}

// =============================================================================
// Evaluation Types
// =============================================================================

// ScoreSet holds the per-dimension scores of one evaluation, each in [0,10].
// Overall is the headline value.
type ScoreSet struct {
	Composition float64 `json:"composition" yaml:"composition"`
	Light       float64 `json:"light" yaml:"light"`
	Color       float64 `json:"color" yaml:"color"`
	Technical   float64 `json:"technical" yaml:"technical"`
	Expression  float64 `json:"expression" yaml:"expression"`
	Overall     float64 `json:"overall" yaml:"overall"`
	Tilt        float64 `json:"tilt,omitempty" yaml:"tilt,omitempty"`
	Sharpness   float64 `json:"sharpness,omitempty" yaml:"sharpness,omitempty"`
}

// AnalysisText holds the free-form commentary of one evaluation.
// Diagnosis may contain several paragraphs separated by "\n".
type AnalysisText struct {
	Diagnosis         string   `json:"diagnosis" yaml:"diagnosis"`
	Improvement       string   `json:"improvement,omitempty" yaml:"improvement,omitempty"`
	StoryNote         string   `json:"storyNote,omitempty" yaml:"story_note,omitempty"`
	MoodNote          string   `json:"moodNote,omitempty" yaml:"mood_note,omitempty"`
	OverallSuggestion string   `json:"overallSuggestion,omitempty" yaml:"overall_suggestion,omitempty"`
	SuggestedTitles   []string `json:"suggestedTitles,omitempty" yaml:"suggested_titles,omitempty"`
	SuggestedTags     []string `json:"suggestedTags,omitempty" yaml:"suggested_tags,omitempty"`
	InstagramCaption  string   `json:"instagramCaption,omitempty" yaml:"instagram_caption,omitempty"`
	InstagramHashtags []string `json:"instagramHashtags,omitempty" yaml:"instagram_hashtags,omitempty"`
}

// ExifSnapshot holds camera metadata of a photo. Any field may be empty.
// A nil *ExifSnapshot means no metadata at all, which is distinct from a
// snapshot whose fields are all empty.
type ExifSnapshot struct {
	Camera       string     `json:"camera,omitempty" yaml:"camera,omitempty"`
	Aperture     string     `json:"aperture,omitempty" yaml:"aperture,omitempty"`
	ShutterSpeed string     `json:"shutterSpeed,omitempty" yaml:"shutter_speed,omitempty"`
	ISO          string     `json:"iso,omitempty" yaml:"iso,omitempty"`
	FocalLength  string     `json:"focalLength,omitempty" yaml:"focal_length,omitempty"`
	CaptureDate  *time.Time `json:"captureDate,omitempty" yaml:"capture_date,omitempty"`
}

// HasCameraLine reports whether the snapshot carries enough data for the
// card's EXIF row: a camera model or an aperture.
func (e *ExifSnapshot) HasCameraLine() bool {
	return e != nil && (e.Camera != "" || e.Aperture != "")
}

// =============================================================================
// Loader Stage Types
// =============================================================================

// DefaultLoadTimeout bounds a single photo load.
const DefaultLoadTimeout = 5000 * time.Millisecond

// LoadInput contains parameters for loading a photo.
type LoadInput struct {
	Source  string        // http(s) URL, data: URI or local path
	Timeout time.Duration // 0 means DefaultLoadTimeout
}

// LoadResult contains the decoded photo.
type LoadResult struct {
	Image image.Image
}

// =============================================================================
// Share Card Types
// =============================================================================

// ShareCardRequest is the sole input of a share-card render.
type ShareCardRequest struct {
	Source   string        `json:"source" yaml:"source"`
	Title    string        `json:"title" yaml:"title"`
	Tags     []string      `json:"tags" yaml:"tags"`
	Exif     *ExifSnapshot `json:"exif" yaml:"exif"`
	Scores   ScoreSet      `json:"scores" yaml:"scores"`
	Analysis AnalysisText  `json:"analysis" yaml:"analysis"`
}

// CardLayoutInput contains the content-driven measurements of a card.
type CardLayoutInput struct {
	Width          int // Total card width (default: 1080)
	Padding        int // Outer padding (default: 72)
	PhotoWidth     int // Native photo width in pixels
	PhotoHeight    int // Native photo height in pixels
	HasTags        bool
	HasExif        bool
	DiagnosisLines int
}

// DefaultCardLayoutInput returns CardLayoutInput with default values.
func DefaultCardLayoutInput() CardLayoutInput {
	return CardLayoutInput{
		Width:   1080,
		Padding: 72,
	}
}

// CardLayout contains the section rectangles of a card, top to bottom.
// Tags and Exif are zero rectangles when the section is skipped.
type CardLayout struct {
	Size           Dimension `json:"size"`
	ContentWidth   int       `json:"contentWidth"`
	Photo          Rectangle `json:"photo"`
	PhotoCrop      Rectangle `json:"photoCrop"`
	TitleRow       Rectangle `json:"titleRow"`
	Tags           Rectangle `json:"tags"`
	Exif           Rectangle `json:"exif"`
	Grid           Rectangle `json:"grid"`
	Diagnosis      Rectangle `json:"diagnosis"`
	DiagnosisLines int       `json:"diagnosisLines"`
	Footer         Rectangle `json:"footer"`
}

// CardTheme defines share-card styling.
type CardTheme struct {
	BackgroundColor    color.Color
	PanelColor         color.Color
	PhotoBackdropColor color.Color
	TrackColor         color.Color
	TextColor          color.Color
	SecondaryTextColor color.Color
	DiagnosisTextColor color.Color
	RuleColor          color.Color
	FooterColor        color.Color
}

// DefaultCardTheme returns the dark share-card theme.
func DefaultCardTheme() CardTheme {
	return CardTheme{
		BackgroundColor:    color.RGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 255},
		PanelColor:         color.RGBA{R: 0x14, G: 0x14, B: 0x14, A: 255},
		PhotoBackdropColor: color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 255},
		TrackColor:         color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 255},
		TextColor:          color.White,
		SecondaryTextColor: color.RGBA{R: 0xa3, G: 0xa3, B: 0xa3, A: 255},
		DiagnosisTextColor: color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 255},
		RuleColor:          color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255},
		FooterColor:        color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 255},
	}
}

// ShareCardResult contains the rendered card.
type ShareCardResult struct {
	DataURI string // data:image/jpeg;base64,...
	Image   image.Image
	Layout  CardLayout
	TierID  string
}

// =============================================================================
// Export Types
// =============================================================================

// ExportInput contains a rendered card to save or share.
type ExportInput struct {
	DataURI string
	Title   string
}

// ExportResult reports how a card left the system.
// Saved is the success signal; Method and Location describe the path taken.
type ExportResult struct {
	Saved    bool
	Method   string // "share" or "download"
	Location string
}

// =============================================================================
// Compression Stage Types
// =============================================================================

// DefaultTargetMB is the compression byte budget in megabytes.
const DefaultTargetMB = 2.5

// ImageFile is an in-memory file as handed over by an upload.
type ImageFile struct {
	Name     string
	MIMEType string
	Data     []byte
	ModTime  time.Time
}

// Size returns the file size in bytes.
func (f ImageFile) Size() int64 {
	return int64(len(f.Data))
}

// CompressionRequest contains a file and its byte budget.
type CompressionRequest struct {
	File     ImageFile
	TargetMB float64 // 0 means DefaultTargetMB
}

// CompressionResult contains the size-bounded file.
type CompressionResult struct {
	File      ImageFile
	Unchanged bool // the input was returned as-is
	Quality   int  // JPEG quality of the accepted attempt, 0 when unchanged
	Attempts  int  // number of re-encodes performed
	Degraded  bool // accepted at the quality floor while still above target
	Width     int
	Height    int
}
