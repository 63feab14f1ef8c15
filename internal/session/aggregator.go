// Package session folds scored answers into an interview session and produces the final
// feedback summary. It performs no I/O.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/progression"
)

// DefaultTopN is how many strengths and improvements a summary keeps
const DefaultTopN = 3

var (
	ErrSessionCompleted = errors.New("session is already completed")
	ErrNotComplete      = errors.New("session is not complete")
	ErrAlreadyFinalized = errors.New("session already has a summary")
	ErrNoRecords        = errors.New("no answers recorded")
)

// recommendation tiers, evaluated on the 0-10 scale
var tiers = []struct {
	min  float64
	tier string
}{
	{8, models.RecommendationStrongYes},
	{6, models.RecommendationYes},
	{4, models.RecommendationMaybe},
}

// now is swapped in tests
var now = time.Now

// RecordAnswer returns a copy of s with the record folded in: running sums, answered count,
// cached stage and, once the budget is reached, completion.
func RecordAnswer(s *models.InterviewSession, record *models.QuestionAnswerRecord) (*models.InterviewSession, error) {
	if s.IsCompleted() || progression.IsComplete(s.AnsweredCount, s.TotalQuestions) {
		return nil, ErrSessionCompleted
	}

	updated := *s
	updated.SetRunningSums(s.RunningSums().Add(record.Scores()))
	updated.AnsweredCount++
	if record.OracleDegraded {
		updated.DegradedCount++
	}
	updated.Stage = progression.NextStage(updated.AnsweredCount, updated.TotalQuestions, updated.InterviewType)

	if progression.IsComplete(updated.AnsweredCount, updated.TotalQuestions) {
		completedAt := now().UTC()
		updated.Status = models.StatusCompleted
		updated.CompletedAt = &completedAt
		updated.CurrentQuestionID = ""
		updated.CurrentQuestion = ""
	}
	return &updated, nil
}

// Finalize builds the feedback summary of a completed session. existing is the summary already
// attached to the session, if any.
func Finalize(s *models.InterviewSession, records []models.QuestionAnswerRecord, existing *models.FeedbackSummary) (*models.FeedbackSummary, error) {
	return FinalizeTopN(s, records, existing, DefaultTopN)
}

// FinalizeTopN is Finalize with a custom list length
func FinalizeTopN(s *models.InterviewSession, records []models.QuestionAnswerRecord, existing *models.FeedbackSummary, topN int) (*models.FeedbackSummary, error) {
	if existing != nil {
		return nil, ErrAlreadyFinalized
	}
	if !s.IsCompleted() && !progression.IsComplete(s.AnsweredCount, s.TotalQuestions) {
		return nil, ErrNotComplete
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("finalize session %s: %w", s.ID, ErrNoRecords)
	}

	var sums models.RubricScores
	var overallSum float64
	strengths := newTally()
	improvements := newTally()
	for i := range records {
		scores := records[i].Scores()
		sums = sums.Add(scores)
		overallSum += scores.Overall()
		strengths.add(records[i].Strengths)
		improvements.add(records[i].Improvements)
	}

	n := float64(len(records))
	avg := sums.Scale(1 / n).Round()
	overall := overallSum / n

	return &models.FeedbackSummary{
		SessionID:      s.ID,
		Relevance:      avg.Relevance,
		Clarity:        avg.Clarity,
		Depth:          avg.Depth,
		Confidence:     avg.Confidence,
		Overall:        overall,
		Strengths:      strengths.top(topN),
		Improvements:   improvements.top(topN),
		Recommendation: Recommendation(overall),
		AnswerCount:    len(records),
	}, nil
}

// Recommendation maps a 0-100 overall score to a hiring tier
func Recommendation(overall float64) string {
	ten := models.ToTenPoint(overall)
	for _, t := range tiers {
		if ten >= t.min {
			return t.tier
		}
	}
	return models.RecommendationNo
}

// tally counts strings case-insensitively and remembers first-seen order
type tally struct {
	counts map[string]int
	order  []string
	labels map[string]string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}, labels: map[string]string{}}
}

func (t *tally) add(items []string) {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, seen := t.counts[key]; !seen {
			t.order = append(t.order, key)
			t.labels[key] = item
		}
		t.counts[key]++
	}
}

// top returns the n most frequent items; equal counts keep first-seen order
func (t *tally) top(n int) []string {
	ranked := make([]string, len(t.order))
	copy(ranked, t.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.counts[ranked[i]] > t.counts[ranked[j]]
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, key := range ranked {
		out[i] = t.labels[key]
	}
	return out
}
