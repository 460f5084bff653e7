package summarizer

import (
	"fmt"
	"strings"

	"github.com/user/photoinsight/pkg/pipeline"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# PhotoInsight Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Photo\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Title | %s |\n", cell(orDash(s.Photo.Title)))
	fmt.Fprintf(&b, "| Source | %s |\n", cell(orDash(s.Photo.Source)))
	if len(s.Photo.Tags) > 0 {
		fmt.Fprintf(&b, "| Tags | %s |\n", cell(strings.Join(s.Photo.Tags, ", ")))
	}
	if s.Exif != nil {
		writeExif(&b, s.Exif)
	}
	b.WriteString("\n")

	b.WriteString("## Scores\n\n")
	b.WriteString("| Dimension | Score |\n|-----------|-------|\n")
	for _, d := range s.Scores.Dimensions() {
		fmt.Fprintf(&b, "| %s | %.1f |\n", d.Key, d.Value)
	}
	fmt.Fprintf(&b, "| **Overall** | **%.1f** |\n\n", s.Scores.Overall)
	if s.Tier.ID != "" {
		fmt.Fprintf(&b, "Tier: %s (`%s`)\n\n", orDash(s.Tier.Label), s.Tier.ID)
	}

	b.WriteString("## Share Card\n\n")
	b.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&b, "| Size | %dx%d |\n", s.Card.Width, s.Card.Height)
	fmt.Fprintf(&b, "| JPEG | %s |\n", formatBytes(int64(s.Card.Bytes)))
	fmt.Fprintf(&b, "| Diagnosis lines | %d |\n\n", s.Card.DiagnosisLines)

	c := s.Compression
	if c.OriginalBytes > 0 {
		b.WriteString("## Upload Compression\n\n")
		b.WriteString("| Item | Value |\n|------|-------|\n")
		fmt.Fprintf(&b, "| Original | %s |\n", formatBytes(c.OriginalBytes))
		if c.Unchanged {
			b.WriteString("| Result | unchanged |\n")
		} else {
			fmt.Fprintf(&b, "| Compressed | %s |\n", formatBytes(c.CompressedBytes))
			fmt.Fprintf(&b, "| Ratio | %.1f%% |\n", c.Ratio()*100)
			fmt.Fprintf(&b, "| Dimensions | %dx%d |\n", c.Width, c.Height)
			fmt.Fprintf(&b, "| Quality | %d (%d attempts) |\n", c.Quality, c.Attempts)
			if c.Degraded {
				b.WriteString("| Note | still above target at the quality floor |\n")
			}
		}
		b.WriteString("\n")
	}

	if s.Export.Method != "" || s.Export.Saved {
		b.WriteString("## Export\n\n")
		if s.Export.Saved {
			fmt.Fprintf(&b, "Saved via %s: `%s`\n", s.Export.Method, s.Export.Location)
		} else {
			b.WriteString("Not saved\n")
		}
	}

	return b.String()
}

func writeExif(b *strings.Builder, e *pipeline.ExifSnapshot) {
	rows := []struct{ name, value string }{
		{"Camera", e.Camera},
		{"Focal length", e.FocalLength},
		{"Aperture", e.Aperture},
		{"Shutter", e.ShutterSpeed},
		{"ISO", e.ISO},
	}
	for _, r := range rows {
		if r.value != "" {
			fmt.Fprintf(b, "| %s | %s |\n", r.name, cell(r.value))
		}
	}
	if e.CaptureDate != nil {
		fmt.Fprintf(b, "| Captured | %s |\n", e.CaptureDate.Format("2006-01-02 15:04"))
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// cell escapes pipes so values cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
