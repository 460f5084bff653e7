package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrEmptyAnalysis is returned when an analysis payload carries no scores.
var ErrEmptyAnalysis = errors.New("analysis payload has no scores")

// Analysis is the payload returned by the external photo-analysis service.
type Analysis struct {
	Scores   ScoreSet     `json:"scores" yaml:"scores"`
	Analysis AnalysisText `json:"analysis" yaml:"analysis"`
}

// DecodeAnalysis parses an analysis payload and normalizes its scores.
func DecodeAnalysis(data []byte) (Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	if a.Scores == (ScoreSet{}) {
		return Analysis{}, ErrEmptyAnalysis
	}
	a.Scores = a.Scores.Normalize()
	return a, nil
}

// Normalize maps the scores into [0,10].
// The analysis service sometimes answers on a 0-100 scale; when any
// dimension exceeds 10 every dimension is divided by 10.
func (s ScoreSet) Normalize() ScoreSet {
	values := s.values()
	scale := 1.0
	for _, v := range values {
		if *v > 10 {
			scale = 10
			break
		}
	}
	for _, v := range values {
		*v = clampScore(*v / scale)
	}
	return s
}

// Dimensions returns the five sub-scores drawn on a share card, in order.
func (s ScoreSet) Dimensions() []Dimensioned {
	return []Dimensioned{
		{Key: "Composition", Value: s.Composition},
		{Key: "Light", Value: s.Light},
		{Key: "Color", Value: s.Color},
		{Key: "Technical", Value: s.Technical},
		{Key: "Expression", Value: s.Expression},
	}
}

// Dimensioned is a labelled sub-score. Key is a lexicon key.
type Dimensioned struct {
	Key   string
	Value float64
}

func (s *ScoreSet) values() []*float64 {
	return []*float64{
		&s.Composition, &s.Light, &s.Color, &s.Technical,
		&s.Expression, &s.Overall, &s.Tilt, &s.Sharpness,
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(10, v))
}
