// Package scoring grades interview answers. The oracle path asks a language model for a rubric;
// the heuristic path never fails and is used whenever the oracle is unavailable.
package scoring

import (
	"context"
	"errors"
	"strings"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

var (
	// ErrOracleUnavailable covers every oracle failure: missing credentials, transport errors,
	// non-2xx responses and unusable payloads. Callers fall back instead of failing the turn.
	ErrOracleUnavailable = errors.New("scoring oracle unavailable")

	ErrEmptyQuestion = errors.New("question must not be empty")
	ErrEmptyAnswer   = errors.New("answer must not be empty")
)

// Input is everything a scorer may look at for one answer
type Input struct {
	Question        string
	Answer          string
	Stage           models.Stage
	InterviewType   string
	Position        string
	Company         string
	ExperienceLevel string
	Keywords        []string
	RequestID       string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(in.Answer) == "" {
		return ErrEmptyAnswer
	}
	return nil
}

// Assessment is a scored answer; Scores are on the canonical 0-100 scale
type Assessment struct {
	Scores       models.RubricScores `json:"scores"`
	Feedback     string              `json:"feedback"`
	Strengths    []string            `json:"strengths"`
	Improvements []string            `json:"improvements"`
	Source       string              `json:"source"`
	Degraded     bool                `json:"degraded"`
}

// AnswerScorer is implemented by the oracle adapter
type AnswerScorer interface {
	Score(ctx context.Context, in Input) (Assessment, error)
}
