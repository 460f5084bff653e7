// Package sharecard implements the share-card rendering stage.
//
// A card is rendered in two passes. The first pass measures text on a
// throwaway canvas to learn how many diagnosis lines there are; the layout
// stage then fixes every section rectangle, and the second pass draws into
// a canvas of exactly the computed height.
package sharecard

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/scoring"
	"github.com/user/photoinsight/pkg/stages/layout"
	"github.com/user/photoinsight/pkg/textlayout"
)

const (
	// JPEGQuality of the encoded card.
	JPEGQuality = 95

	// DiagnosisLimit and DiagnosisKeep bound the diagnosis text in runes.
	DiagnosisLimit = 120
	DiagnosisKeep  = 118

	// TitleKeep is the rune count kept when the title overflows its row.
	TitleKeep = 8

	// MaxTags is the number of tag pills drawn.
	MaxTags = 3

	// UntitledTitle replaces an empty title.
	UntitledTitle = "UNTITLED"

	// Watermark is drawn in the photo's bottom-right corner.
	Watermark = "PhotoInsight"

	// Brand is the last footer line.
	Brand = "PHOTO INSIGHT"

	photoRadius    = 24
	titleReserve   = 350
	diagnosisInset = 50
	diagnosisWrap  = 100 // horizontal room taken by the inset and right margin
	gridGap        = 30
	gridRowPitch   = 130
	trackHeight    = 16
	badgeWidth     = 200
	badgeHeight    = 50
	tagPillHeight  = 56
	tagPillPadding = 24
	tagPillGap     = 16
)

// Config holds the visual settings of the stage.
type Config struct {
	Theme       pipeline.CardTheme
	LoadTimeout time.Duration
}

// DefaultConfig returns the dark theme and the default load timeout.
func DefaultConfig() Config {
	return Config{
		Theme:       pipeline.DefaultCardTheme(),
		LoadTimeout: pipeline.DefaultLoadTimeout,
	}
}

// Stage renders a share card from an evaluation.
type Stage struct {
	loader   pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
	layout   pipeline.Stage[pipeline.CardLayoutInput, pipeline.CardLayout]
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
	config   Config
}

// NewStage creates a new share-card stage.
func NewStage(
	loader pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult],
	renderer ports.Renderer,
	sink ports.DebugSink,
	logger ports.Logger,
	config Config,
) *Stage {
	return &Stage{
		loader:   loader,
		layout:   layout.NewStage(),
		renderer: renderer,
		sink:     sink,
		logger:   logger.WithComponent("sharecard"),
		config:   config,
	}
}

// Text styles of the card. Colors are filled in at draw time.
var (
	styleTitle     = ports.TextStyle{FontSize: 64, Font: ports.FontSansBold}
	styleScore     = ports.TextStyle{FontSize: 120, Font: ports.FontMonoBold, Align: ports.AlignRight}
	styleCaption   = ports.TextStyle{FontSize: 26, Font: ports.FontSans, Align: ports.AlignRight}
	styleBadge     = ports.TextStyle{FontSize: 26, Font: ports.FontSansBold, Align: ports.AlignCenter}
	styleTag       = ports.TextStyle{FontSize: 28, Font: ports.FontSans}
	styleExif      = ports.TextStyle{FontSize: 30, Font: ports.FontMono}
	styleGridLabel = ports.TextStyle{FontSize: 28, Font: ports.FontSans}
	styleGridValue = ports.TextStyle{FontSize: 40, Font: ports.FontMonoBold, Align: ports.AlignRight}
	styleDiagnosis = ports.TextStyle{FontSize: 42, Font: ports.FontSansMedium}
	styleFooter    = ports.TextStyle{FontSize: 28, Font: ports.FontSans, Align: ports.AlignCenter}
	styleBrand     = ports.TextStyle{FontSize: 36, Font: ports.FontMono, Align: ports.AlignCenter}
	styleWatermark = ports.TextStyle{FontSize: 24, Font: ports.FontMonoBold, Align: ports.AlignRight}
)

// content is the measured card content shared by both passes.
type content struct {
	photo      image.Image
	title      string
	tags       []string
	hasExif    bool // the EXIF row is reserved even when exifLine is empty
	exifLine   string
	diagnosis  []string
	tier       scoring.Tier
	scoreColor color.Color
	scores     pipeline.ScoreSet
}

// Execute renders the card and encodes it as a JPEG data URI.
// Load errors are returned wrapped; callers can test them with errors.Is.
func (s *Stage) Execute(ctx context.Context, req pipeline.ShareCardRequest) (pipeline.ShareCardResult, error) {
	result := pipeline.ShareCardResult{}

	s.logger.Debug("Rendering share card")

	loaded, err := s.loader.Execute(ctx, pipeline.LoadInput{Source: req.Source, Timeout: s.config.LoadTimeout})
	if err != nil {
		return result, fmt.Errorf("load photo: %w", err)
	}

	c := s.measure(req, loaded.Image)

	bounds := c.photo.Bounds()
	layoutInput := pipeline.DefaultCardLayoutInput()
	layoutInput.PhotoWidth = bounds.Dx()
	layoutInput.PhotoHeight = bounds.Dy()
	layoutInput.HasTags = len(c.tags) > 0
	layoutInput.HasExif = c.hasExif
	layoutInput.DiagnosisLines = len(c.diagnosis)

	cardLayout, err := s.layout.Execute(ctx, layoutInput)
	if err != nil {
		return result, fmt.Errorf("compute layout: %w", err)
	}
	s.logger.Debug("Card layout: %dx%d, %d diagnosis lines", cardLayout.Size.Width, cardLayout.Size.Height, cardLayout.DiagnosisLines)

	if s.sink.Enabled() {
		if data, err := json.MarshalIndent(cardLayout, "", "  "); err == nil {
			s.sink.SaveLayoutJSON(data)
		}
	}

	canvas := s.renderer.CreateCanvas(cardLayout.Size.Width, cardLayout.Size.Height, s.config.Theme.BackgroundColor)
	s.draw(canvas, cardLayout, c)
	img := canvas.ToImage()

	if s.sink.Enabled() {
		s.sink.SaveCard(img)
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatJPEG, JPEGQuality)
	if err != nil {
		return result, fmt.Errorf("encode card: %w", err)
	}
	s.logger.Debug("Card encoded: %d bytes", len(data))

	result.DataURI = datauri.Encode(ports.FormatJPEG.MIMEType(), data)
	result.Image = img
	result.Layout = cardLayout
	result.TierID = c.tier.ID
	return result, nil
}

// measure runs the first pass on a 1x1 canvas.
func (s *Stage) measure(req pipeline.ShareCardRequest, photo image.Image) content {
	probe := s.renderer.CreateCanvas(1, 1, s.config.Theme.BackgroundColor)
	contentWidth := float64(contentWidthOf(pipeline.DefaultCardLayoutInput()))

	tier := scoring.TierFor(req.Scores.Overall)
	c := content{
		photo:      photo,
		tags:       cleanTags(req.Tags),
		hasExif:    req.Exif.HasCameraLine(),
		exifLine:   ExifLine(req.Exif),
		tier:       tier,
		scoreColor: scoring.ScoreColor(tier),
		scores:     req.Scores,
	}

	c.title = strings.TrimSpace(req.Title)
	if c.title == "" {
		c.title = UntitledTitle
	}
	if w, _ := probe.MeasureText(c.title, styleTitle); w > contentWidth-titleReserve {
		c.title = textlayout.Truncate(c.title, 0, TitleKeep)
	}

	diagnosis := textlayout.Truncate(req.Analysis.Diagnosis, DiagnosisLimit, DiagnosisKeep)
	measurer := textlayout.MeasurerFunc(func(text string) (float64, float64) {
		return probe.MeasureText(text, styleDiagnosis)
	})
	c.diagnosis = textlayout.Wrap(measurer, diagnosis, contentWidth-diagnosisWrap)
	return c
}

func (s *Stage) draw(canvas ports.Canvas, l pipeline.CardLayout, c content) {
	s.drawPhoto(canvas, l, c)
	s.drawTitleRow(canvas, l.TitleRow, c)
	if len(c.tags) > 0 {
		s.drawTags(canvas, l.Tags, c.tags)
	}
	if c.hasExif {
		s.drawExif(canvas, l.Exif, c.exifLine)
	}
	s.drawGrid(canvas, l.Grid, c.scores)
	s.drawDiagnosis(canvas, l.Diagnosis, c)
	s.drawFooter(canvas, l)
}

func (s *Stage) drawPhoto(canvas ports.Canvas, l pipeline.CardLayout, c content) {
	box := l.Photo
	canvas.DrawRoundedRect(box.X, box.Y, box.Width, box.Height, photoRadius, s.config.Theme.PhotoBackdropColor)

	photo := c.photo
	b := photo.Bounds()
	crop := l.PhotoCrop
	if crop.Width > 0 && crop.Height > 0 && (crop.Width != b.Dx() || crop.Height != b.Dy()) {
		region := image.Rect(crop.X, crop.Y, crop.Right(), crop.Bottom()).Add(b.Min)
		photo = s.renderer.CropImage(photo, region)
	}
	canvas.DrawImageRounded(photo, box.X, box.Y, box.Width, box.Height, photoRadius)

	wm := styleWatermark
	wm.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 160}
	canvas.DrawText(Watermark, box.Right()-24, box.Bottom()-24, wm)
}

func (s *Stage) drawTitleRow(canvas ports.Canvas, row pipeline.Rectangle, c content) {
	title := styleTitle
	title.Color = s.config.Theme.TextColor
	canvas.DrawText(c.title, row.X, row.Y+70, title)

	canvas.DrawRoundedRect(row.X, row.Y+105, badgeWidth, badgeHeight, badgeHeight/2, c.tier.BgColor)
	badge := styleBadge
	badge.Color = c.tier.Text
	canvas.DrawText(c.tier.Label(), row.X+badgeWidth/2, row.Y+105+35, badge)

	score := styleScore
	score.Color = c.scoreColor
	scoreText := fmt.Sprintf("%.1f", c.scores.Overall)
	canvas.DrawText(scoreText, row.Right(), row.Y+95, score)

	scoreWidth, _ := canvas.MeasureText(scoreText, score)
	caption := styleCaption
	caption.Color = s.config.Theme.SecondaryTextColor
	canvas.DrawText(l10n.T("Overall score"), row.Right()-int(math.Ceil(scoreWidth))-20, row.Y+95, caption)
}

func (s *Stage) drawTags(canvas ports.Canvas, area pipeline.Rectangle, tags []string) {
	style := styleTag
	style.Color = s.config.Theme.SecondaryTextColor

	x := area.X
	for _, tag := range tags {
		text := "# " + tag
		w, _ := canvas.MeasureText(text, style)
		pill := int(math.Ceil(w)) + tagPillPadding*2
		if x+pill > area.Right() {
			break
		}
		canvas.DrawRoundedRect(x, area.Y+10, pill, tagPillHeight, tagPillHeight/2, s.config.Theme.PanelColor)
		canvas.DrawText(text, x+tagPillPadding, area.Y+10+38, style)
		x += pill + tagPillGap
	}
}

func (s *Stage) drawExif(canvas ports.Canvas, area pipeline.Rectangle, line string) {
	canvas.DrawLine(area.X, area.Y+20, area.Right(), area.Y+20, s.config.Theme.RuleColor, 2)
	if line == "" {
		return
	}
	style := styleExif
	style.Color = s.config.Theme.SecondaryTextColor
	canvas.DrawText(line, area.X, area.Y+80, style)
}

func (s *Stage) drawGrid(canvas ports.Canvas, area pipeline.Rectangle, scores pipeline.ScoreSet) {
	itemWidth := (area.Width - gridGap*2) / 3
	trackWidth := itemWidth - 20

	label := styleGridLabel
	label.Color = s.config.Theme.SecondaryTextColor
	value := styleGridValue
	value.Color = s.config.Theme.TextColor

	for i, dim := range scores.Dimensions() {
		x := area.X + (i%3)*(itemWidth+gridGap)
		baseline := area.Y + 40 + (i/3)*gridRowPitch

		canvas.DrawText(l10n.T(dim.Key), x, baseline, label)
		canvas.DrawText(fmt.Sprintf("%.1f", dim.Value), x+trackWidth, baseline, value)

		canvas.DrawRoundedRect(x, baseline+20, trackWidth, trackHeight, trackHeight/2, s.config.Theme.TrackColor)
		fill := int(math.Round(float64(trackWidth) * scoring.BarFraction(dim.Value)))
		if fill > 0 {
			canvas.DrawRoundedRect(x, baseline+20, fill, trackHeight, trackHeight/2, scoring.BarColor(dim.Value))
		}
	}
}

func (s *Stage) drawDiagnosis(canvas ports.Canvas, box pipeline.Rectangle, c content) {
	canvas.DrawRoundedRect(box.X, box.Y, box.Width, box.Height, photoRadius, s.config.Theme.PanelColor)
	canvas.DrawRect(box.X, box.Y+40, 6, box.Height-80, c.scoreColor)

	style := styleDiagnosis
	style.Color = s.config.Theme.DiagnosisTextColor
	for i, line := range c.diagnosis {
		if line == "" {
			continue
		}
		canvas.DrawText(line, box.X+diagnosisInset, box.Y+70+i*layout.DiagnosisLineHeight, style)
	}
}

func (s *Stage) drawFooter(canvas ports.Canvas, l pipeline.CardLayout) {
	center := l.Size.Width / 2
	footer := styleFooter
	footer.Color = s.config.Theme.SecondaryTextColor
	canvas.DrawText("—— "+l10n.T("AI photography aesthetics")+" ——", center, l.Footer.Y+80, footer)

	brand := styleBrand
	brand.Color = s.config.Theme.FooterColor
	canvas.DrawText(Brand, center, l.Footer.Y+130, brand)
}

// ExifLine formats the camera row of a card:
// "<camera> | <focal>  <aperture>  <shutter>  <iso>", settings two spaces apart.
// An "Unknown" camera and empty or "--" settings are skipped. The line is
// empty when the snapshot has neither a camera nor an aperture.
func ExifLine(e *pipeline.ExifSnapshot) string {
	if !e.HasCameraLine() {
		return ""
	}

	var parts []string
	if cam := strings.TrimSpace(e.Camera); cam != "" && cam != "Unknown" {
		parts = append(parts, cam)
	}

	var settings []string
	for _, v := range []string{e.FocalLength, e.Aperture, e.ShutterSpeed, e.ISO} {
		if v = strings.TrimSpace(v); v != "" && v != "--" {
			settings = append(settings, v)
		}
	}
	if len(settings) > 0 {
		parts = append(parts, strings.Join(settings, "  "))
	}
	return strings.Join(parts, " | ")
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

func contentWidthOf(in pipeline.CardLayoutInput) int {
	return in.Width - in.Padding*2
}
