package models

import "math"

// Scores are kept on a 0-100 scale everywhere except inside the heuristic scorer,
// which works on 0-10 and converts with FromTenPoint.
const (
	ScaleMax          = 100.0
	TenPointScaleMax  = 10.0
	tenPointToCanonic = ScaleMax / TenPointScaleMax
)

// RubricScores holds the four rubric dimensions
type RubricScores struct {
	Relevance  float64 `json:"relevance"`
	Clarity    float64 `json:"clarity"`
	Depth      float64 `json:"depth"`
	Confidence float64 `json:"confidence"`
}

// Overall is the unweighted mean of the four dimensions
func (s RubricScores) Overall() float64 {
	return (s.Relevance + s.Clarity + s.Depth + s.Confidence) / 4
}

// Add returns the dimension-wise sum
func (s RubricScores) Add(o RubricScores) RubricScores {
	return RubricScores{
		Relevance:  s.Relevance + o.Relevance,
		Clarity:    s.Clarity + o.Clarity,
		Depth:      s.Depth + o.Depth,
		Confidence: s.Confidence + o.Confidence,
	}
}

// Scale multiplies every dimension by f
func (s RubricScores) Scale(f float64) RubricScores {
	return RubricScores{
		Relevance:  s.Relevance * f,
		Clarity:    s.Clarity * f,
		Depth:      s.Depth * f,
		Confidence: s.Confidence * f,
	}
}

// Clamp bounds every dimension to [0, max]
func (s RubricScores) Clamp(max float64) RubricScores {
	return RubricScores{
		Relevance:  clamp(s.Relevance, max),
		Clarity:    clamp(s.Clarity, max),
		Depth:      clamp(s.Depth, max),
		Confidence: clamp(s.Confidence, max),
	}
}

// Round rounds every dimension to one decimal place
func (s RubricScores) Round() RubricScores {
	return RubricScores{
		Relevance:  round1(s.Relevance),
		Clarity:    round1(s.Clarity),
		Depth:      round1(s.Depth),
		Confidence: round1(s.Confidence),
	}
}

// FromTenPoint converts 0-10 scores to the canonical 0-100 scale
func FromTenPoint(s RubricScores) RubricScores {
	return s.Scale(tenPointToCanonic).Clamp(ScaleMax)
}

// ToTenPoint converts a canonical score back to 0-10, used for recommendation tiers
func ToTenPoint(v float64) float64 {
	return v / tenPointToCanonic
}

func clamp(v, max float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
