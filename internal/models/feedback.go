package models

import "time"

// FeedbackSummary is computed once, when a session completes
type FeedbackSummary struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"sessionId"`

	Relevance  float64 `gorm:"not null" json:"relevance"`
	Clarity    float64 `gorm:"not null" json:"clarity"`
	Depth      float64 `gorm:"not null" json:"depth"`
	Confidence float64 `gorm:"not null" json:"confidence"`
	Overall    float64 `gorm:"not null" json:"overall"`

	Strengths      []string `gorm:"type:text;serializer:json" json:"strengths"`
	Improvements   []string `gorm:"type:text;serializer:json" json:"improvements"`
	Recommendation string   `gorm:"type:varchar(16);not null" json:"recommendation"`
	Narrative      string   `gorm:"type:text" json:"narrative"`
	AnswerCount    int      `gorm:"not null" json:"answerCount"`

	CreatedAt time.Time `json:"createdAt"`
}

// Averages returns the per-dimension averages
func (f *FeedbackSummary) Averages() RubricScores {
	return RubricScores{
		Relevance:  f.Relevance,
		Clarity:    f.Clarity,
		Depth:      f.Depth,
		Confidence: f.Confidence,
	}
}

// AllModels lists the tables owned by this service, in migration order
func AllModels() []interface{} {
	return []interface{}{&InterviewSession{}, &QuestionAnswerRecord{}, &FeedbackSummary{}}
}
