package models

// oracle output, normalized across providers
type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"requestId"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// additional information about the generation
type GenerationMetadata struct {
	ProcessingTime int    `json:"processingTimeMs"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

type QuestionView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Stage Stage  `json:"stage"`
}

type SessionView struct {
	*InterviewSession
	AverageScores RubricScores `json:"averageScores"`
}

type StartSessionResponse struct {
	Session  SessionView  `json:"session"`
	Question QuestionView `json:"question"`
}

type TurnResponse struct {
	Scores         RubricScores     `json:"scores"`
	OverallScore   float64          `json:"overallScore"`
	FeedbackText   string           `json:"feedbackText"`
	Strengths      []string         `json:"strengths"`
	Improvements   []string         `json:"improvements"`
	NextQuestion   *QuestionView    `json:"nextQuestion,omitempty"`
	NextStage      Stage            `json:"nextStage"`
	IsComplete     bool             `json:"isComplete"`
	OracleDegraded bool             `json:"oracleDegraded"`
	AnsweredCount  int              `json:"answeredCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Summary        *FeedbackSummary `json:"summary,omitempty"`
}

// PersistenceFailureResponse carries the computed score so a client retry does not re-score
type PersistenceFailureResponse struct {
	ErrorResponse
	Retryable    bool         `json:"retryable"`
	Scores       RubricScores `json:"scores"`
	FeedbackText string       `json:"feedbackText"`
}

// returned when no TTS oracle is available; the browser synthesizes the speech
type TTSFallbackResponse struct {
	Message  string `json:"message"`
	Fallback string `json:"fallback"`
	Text     string `json:"text"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}
