package session

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

func newSession(total int) *models.InterviewSession {
	return &models.InterviewSession{
		ID:             "session-1",
		InterviewType:  models.InterviewTypeMixed,
		Status:         models.StatusActive,
		Stage:          models.StageIntroduction,
		TotalQuestions: total,
		Version:        1,
	}
}

func record(seq int, scores models.RubricScores, strengths, improvements []string) *models.QuestionAnswerRecord {
	r := &models.QuestionAnswerRecord{
		SessionID:      "session-1",
		SequenceNumber: seq,
		Strengths:      strengths,
		Improvements:   improvements,
	}
	r.SetScores(scores)
	return r
}

func uniform(v float64) models.RubricScores {
	return models.RubricScores{Relevance: v, Clarity: v, Depth: v, Confidence: v}
}

func TestRecordAnswerDoesNotMutateInput(t *testing.T) {
	s := newSession(4)

	updated, err := RecordAnswer(s, record(1, uniform(80), nil, nil))
	require.NoError(t, err)

	assert.Equal(t, 0, s.AnsweredCount)
	assert.Equal(t, 0.0, s.RelevanceSum)
	assert.Equal(t, 1, updated.AnsweredCount)
	assert.Equal(t, 80.0, updated.RelevanceSum)
	assert.Equal(t, models.StageWarmup, updated.Stage)
}

func TestRecordAnswerCompletesSession(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	s := newSession(2)
	s, err := RecordAnswer(s, record(1, uniform(50), nil, nil))
	require.NoError(t, err)
	assert.False(t, s.IsCompleted())

	degraded := record(2, uniform(70), nil, nil)
	degraded.OracleDegraded = true
	s, err = RecordAnswer(s, degraded)
	require.NoError(t, err)

	assert.True(t, s.IsCompleted())
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, fixed, *s.CompletedAt)
	assert.Equal(t, models.StageClosing, s.Stage)
	assert.Equal(t, 1, s.DegradedCount)
	assert.Equal(t, uniform(60), s.RunningAverage())

	_, err = RecordAnswer(s, record(3, uniform(70), nil, nil))
	assert.True(t, errors.Is(err, ErrSessionCompleted))
}

func TestFinalizeOverallIsMeanOfRecordOveralls(t *testing.T) {
	s := newSession(3)
	s.Status = models.StatusCompleted
	s.AnsweredCount = 3

	records := []models.QuestionAnswerRecord{
		*record(1, models.RubricScores{Relevance: 90, Clarity: 70, Depth: 40, Confidence: 66}, nil, nil),
		*record(2, models.RubricScores{Relevance: 33.3, Clarity: 81, Depth: 12, Confidence: 58}, nil, nil),
		*record(3, models.RubricScores{Relevance: 100, Clarity: 100, Depth: 95, Confidence: 0}, nil, nil),
	}

	summary, err := Finalize(s, records, nil)
	require.NoError(t, err)

	var want float64
	for i := range records {
		want += records[i].Scores().Overall()
	}
	want /= float64(len(records))

	assert.InDelta(t, want, summary.Overall, 1e-9)
	assert.Equal(t, 3, summary.AnswerCount)
	assert.True(t, math.Abs(summary.Relevance-74.4) < 1e-9)
}

func TestFinalizeTopNFrequencyWithFirstSeenTieBreak(t *testing.T) {
	s := newSession(3)
	s.Status = models.StatusCompleted

	records := []models.QuestionAnswerRecord{
		*record(1, uniform(70), []string{"Clear structure", "Good examples"}, []string{"Be concise"}),
		*record(2, uniform(70), []string{"Ownership", "good examples"}, []string{"Quantify impact"}),
		*record(3, uniform(70), []string{"Calm delivery", "Clear structure"}, []string{"Quantify impact", "Be concise", "Slow down"}),
	}

	summary, err := FinalizeTopN(s, records, nil, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"Clear structure", "Good examples", "Ownership"}, summary.Strengths)
	assert.Equal(t, []string{"Be concise", "Quantify impact", "Slow down"}, summary.Improvements)
}

func TestFinalizeGuards(t *testing.T) {
	s := newSession(3)
	s.AnsweredCount = 1

	_, err := Finalize(s, []models.QuestionAnswerRecord{*record(1, uniform(50), nil, nil)}, nil)
	assert.True(t, errors.Is(err, ErrNotComplete))

	s.Status = models.StatusCompleted
	_, err = Finalize(s, []models.QuestionAnswerRecord{*record(1, uniform(50), nil, nil)}, &models.FeedbackSummary{})
	assert.True(t, errors.Is(err, ErrAlreadyFinalized))

	_, err = Finalize(s, nil, nil)
	assert.True(t, errors.Is(err, ErrNoRecords))
}

func TestRecommendationTiers(t *testing.T) {
	cases := map[float64]string{
		100:  models.RecommendationStrongYes,
		80:   models.RecommendationStrongYes,
		79.9: models.RecommendationYes,
		60:   models.RecommendationYes,
		45:   models.RecommendationMaybe,
		40:   models.RecommendationMaybe,
		39:   models.RecommendationNo,
		0:    models.RecommendationNo,
	}
	for overall, want := range cases {
		assert.Equal(t, want, Recommendation(overall), "overall %v", overall)
	}
}
