package models

import "time"

// InterviewSession is the only mutable shared record; every save is checked against Version.
// Stage is a cache of progression.NextStage and is overwritten on every turn.
type InterviewSession struct {
	ID              string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string `gorm:"index" json:"userId,omitempty"`
	Position        string `gorm:"not null" json:"position"`
	Company         string `json:"company,omitempty"`
	ExperienceLevel string `gorm:"not null" json:"experienceLevel"`
	InterviewType   string `gorm:"not null" json:"interviewType"`

	Stage          Stage  `gorm:"type:varchar(32);not null" json:"stage"`
	Status         string `gorm:"type:varchar(16);not null;index" json:"status"`
	TotalQuestions int    `gorm:"not null" json:"totalQuestions"`
	AnsweredCount  int    `gorm:"not null;default:0" json:"answeredCount"`

	RelevanceSum  float64 `gorm:"not null;default:0" json:"-"`
	ClaritySum    float64 `gorm:"not null;default:0" json:"-"`
	DepthSum      float64 `gorm:"not null;default:0" json:"-"`
	ConfidenceSum float64 `gorm:"not null;default:0" json:"-"`
	DegradedCount int     `gorm:"not null;default:0" json:"degradedCount"`

	CurrentQuestionID string `json:"currentQuestionId,omitempty"`
	CurrentQuestion   string `gorm:"type:text" json:"currentQuestion,omitempty"`

	Version     int        `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RunningSums returns the accumulated per-dimension sums
func (s *InterviewSession) RunningSums() RubricScores {
	return RubricScores{
		Relevance:  s.RelevanceSum,
		Clarity:    s.ClaritySum,
		Depth:      s.DepthSum,
		Confidence: s.ConfidenceSum,
	}
}

// SetRunningSums overwrites the accumulated per-dimension sums
func (s *InterviewSession) SetRunningSums(sums RubricScores) {
	s.RelevanceSum = sums.Relevance
	s.ClaritySum = sums.Clarity
	s.DepthSum = sums.Depth
	s.ConfidenceSum = sums.Confidence
}

// RunningAverage is the per-dimension average over answered questions
func (s *InterviewSession) RunningAverage() RubricScores {
	if s.AnsweredCount == 0 {
		return RubricScores{}
	}
	return s.RunningSums().Scale(1 / float64(s.AnsweredCount)).Round()
}

// IsCompleted reports whether the session has been closed
func (s *InterviewSession) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// QuestionAnswerRecord is immutable once written; (SessionID, SequenceNumber) is unique.
type QuestionAnswerRecord struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	SessionID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_session_sequence" json:"sessionId"`
	SequenceNumber int    `gorm:"not null;uniqueIndex:idx_session_sequence" json:"sequenceNumber"`

	QuestionID   string `json:"questionId"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	AnswerText   string `gorm:"type:text;not null" json:"answerText"`
	StageAtAsk   Stage  `gorm:"type:varchar(32);not null" json:"stageAtAsk"`

	Relevance  float64 `gorm:"not null" json:"relevance"`
	Clarity    float64 `gorm:"not null" json:"clarity"`
	Depth      float64 `gorm:"not null" json:"depth"`
	Confidence float64 `gorm:"not null" json:"confidence"`

	FeedbackText   string   `gorm:"type:text" json:"feedbackText"`
	Strengths      []string `gorm:"type:text;serializer:json" json:"strengths"`
	Improvements   []string `gorm:"type:text;serializer:json" json:"improvements"`
	ScoreSource    string   `gorm:"type:varchar(32)" json:"scoreSource"`
	OracleDegraded bool     `gorm:"not null;default:false" json:"oracleDegraded"`

	CreatedAt time.Time `json:"createdAt"`
}

// Scores returns the record's rubric
func (r *QuestionAnswerRecord) Scores() RubricScores {
	return RubricScores{
		Relevance:  r.Relevance,
		Clarity:    r.Clarity,
		Depth:      r.Depth,
		Confidence: r.Confidence,
	}
}

// SetScores copies a rubric onto the record
func (r *QuestionAnswerRecord) SetScores(s RubricScores) {
	r.Relevance = s.Relevance
	r.Clarity = s.Clarity
	r.Depth = s.Depth
	r.Confidence = s.Confidence
}
