package textlayout

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// fixedMeasurer measures ASCII runes at 10px and everything else at 20px.
var fixedMeasurer = MeasurerFunc(func(s string) (float64, float64) {
	w := 0.0
	for _, r := range s {
		if r < utf8.RuneSelf {
			w += 10
		} else {
			w += 20
		}
	}
	return w, 16
})

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "fits on one line",
			text:     "abc",
			maxWidth: 100,
			want:     []string{"abc"},
		},
		{
			name:     "breaks at rune granularity",
			text:     "abcdefg",
			maxWidth: 30,
			want:     []string{"abc", "def", "g"},
		},
		{
			name:     "does not prefer spaces",
			text:     "ab cd",
			maxWidth: 40,
			want:     []string{"ab c", "d"},
		},
		{
			name:     "wide runes",
			text:     "构图很好光影平庸",
			maxWidth: 60,
			want:     []string{"构图很", "好光影", "平庸"},
		},
		{
			name:     "paragraph break",
			text:     "ab\ncd",
			maxWidth: 100,
			want:     []string{"ab", "cd"},
		},
		{
			name:     "blank paragraph preserved",
			text:     "A\n\nB",
			maxWidth: 100,
			want:     []string{"A", "", "B"},
		},
		{
			name:     "whitespace-only paragraph is blank",
			text:     "A\n   \nB",
			maxWidth: 100,
			want:     []string{"A", "", "B"},
		},
		{
			name:     "empty text",
			text:     "",
			maxWidth: 100,
			want:     []string{""},
		},
		{
			name:     "single rune wider than max",
			text:     "构a",
			maxWidth: 15,
			want:     []string{"构", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(fixedMeasurer, tt.text, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrap_LineWidthBound(t *testing.T) {
	text := "Strong diagonal lines lead the eye.\n主体清晰，但天空过曝，建议降低曝光补偿。\n\nTry a lower angle."
	for _, maxWidth := range []float64{15, 45, 90, 200} {
		for _, line := range Wrap(fixedMeasurer, text, maxWidth) {
			w, _ := fixedMeasurer.MeasureString(line)
			if w > maxWidth && utf8.RuneCountInString(line) != 1 {
				t.Errorf("maxWidth %v: line %q measures %v", maxWidth, line, w)
			}
		}
	}
}

func TestWrap_PreservesContent(t *testing.T) {
	text := "abcdefghij"
	lines := Wrap(fixedMeasurer, text, 35)
	joined := ""
	for _, l := range lines {
		joined += l
	}
	if joined != text {
		t.Errorf("joined lines %q, want %q", joined, text)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		keep  int
		want  string
	}{
		{"short", 120, 118, "short"},
		{"abcdef", 5, 3, "abc..."},
		{"摄影美学分析报告", 4, 2, "摄影..."},
		{"abc", 0, 8, "abc..."},
		{"", 0, 8, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.text, tt.limit, tt.keep); got != tt.want {
			t.Errorf("Truncate(%q, %d, %d) = %q, want %q", tt.text, tt.limit, tt.keep, got, tt.want)
		}
	}
}
