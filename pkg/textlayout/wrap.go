// Package textlayout measures and wraps text into width-bounded lines.
//
// Wrapping works at rune granularity: a line breaks wherever the next rune
// would overflow, never at word boundaries. This suits dense scripts such as
// Chinese captions mixed with short Latin runs; space-delimited text will
// break mid-word.
package textlayout

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Measurer measures a string in the font it is bound to.
// *gg.Context satisfies it.
type Measurer interface {
	MeasureString(s string) (width, height float64)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(s string) (width, height float64)

// MeasureString implements Measurer.
func (f MeasurerFunc) MeasureString(s string) (float64, float64) {
	return f(s)
}

// Wrap splits text on "\n" and wraps every paragraph to maxWidth.
// Empty and whitespace-only paragraphs yield a single empty line.
// A line may exceed maxWidth only when it holds a single rune that is
// wider than maxWidth on its own.
func Wrap(m Measurer, text string, maxWidth float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapParagraph(m, paragraph, maxWidth)...)
	}
	return lines
}

func wrapParagraph(m Measurer, paragraph string, maxWidth float64) []string {
	var lines []string
	var current strings.Builder

	for _, r := range paragraph {
		candidate := current.String() + string(r)
		width, _ := m.MeasureString(candidate)
		if width > maxWidth && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Truncate shortens text longer than limit runes to its first keep runes
// followed by Ellipsis. Shorter text is returned unchanged.
func Truncate(text string, limit, keep int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	if keep > len(runes) {
		keep = len(runes)
	}
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + Ellipsis
}
