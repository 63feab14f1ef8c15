package models

import (
	"strings"
	"unicode/utf8"
)

type StartSessionRequest struct {
	Position        string `json:"position"`
	Company         string `json:"company,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	InterviewType   string `json:"interviewType"`
	DurationMinutes int    `json:"durationMinutes"`
}

// implements the Validator interface
func (r *StartSessionRequest) Validate() error {
	r.Position = strings.TrimSpace(r.Position)
	r.Company = strings.TrimSpace(r.Company)
	r.InterviewType = strings.ToLower(strings.TrimSpace(r.InterviewType))
	r.ExperienceLevel = strings.ToLower(strings.TrimSpace(r.ExperienceLevel))

	if r.Position == "" {
		return &ErrorResponse{Code: "missing_position", Message: "position is required"}
	}
	if hasNUL(r.Position) || hasNUL(r.Company) {
		return &ErrorResponse{Code: "invalid_text", Message: "position and company must not contain NUL characters"}
	}

	if r.InterviewType == "" {
		r.InterviewType = InterviewTypeMixed
	}
	if !ValidInterviewTypes[r.InterviewType] {
		return &ErrorResponse{
			Code:    "invalid_interview_type",
			Message: "interviewType must be one of: technical, behavioral, mixed",
		}
	}

	if r.ExperienceLevel == "" {
		r.ExperienceLevel = DefaultExperienceLevel
	}
	if !ValidExperienceLevels[r.ExperienceLevel] {
		return &ErrorResponse{
			Code:    "invalid_experience_level",
			Message: "experienceLevel must be one of: entry, junior, mid, senior, lead",
		}
	}

	if r.DurationMinutes <= 0 || r.DurationMinutes > MaxDurationMinutes {
		return &ErrorResponse{
			Code:    "invalid_duration",
			Message: "durationMinutes must be between 1 and 180",
			Details: []ValidationErrorDetail{{Field: "durationMinutes", Reason: "out of range"}},
		}
	}

	return nil
}

// TurnRequest submits one answer. Stage is informational; the server recomputes it.
type TurnRequest struct {
	SessionID            string `json:"sessionId"`
	QuestionID           string `json:"questionId"`
	AnswerText           string `json:"answerText"`
	Stage                string `json:"stage,omitempty"`
	AnswerSequenceNumber int    `json:"answerSequenceNumber"`
}

func (r *TurnRequest) Validate() error {
	var details []ValidationErrorDetail

	if strings.TrimSpace(r.SessionID) == "" {
		details = append(details, ValidationErrorDetail{Field: "sessionId", Reason: "required"})
	}
	if strings.TrimSpace(r.AnswerText) == "" {
		details = append(details, ValidationErrorDetail{Field: "answerText", Reason: "required"})
	} else if utf8.RuneCountInString(r.AnswerText) > MaxAnswerLength {
		details = append(details, ValidationErrorDetail{Field: "answerText", Reason: "too long"})
	} else if hasNUL(r.AnswerText) {
		details = append(details, ValidationErrorDetail{Field: "answerText", Reason: "contains NUL character"})
	}
	if r.AnswerSequenceNumber < 1 {
		details = append(details, ValidationErrorDetail{Field: "answerSequenceNumber", Reason: "must be >= 1"})
	}
	if r.Stage != "" && !Stage(strings.ToLower(r.Stage)).IsValid() {
		details = append(details, ValidationErrorDetail{Field: "stage", Reason: "unknown stage"})
	}

	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "invalid_turn",
			Message: "Turn request failed validation",
			Details: details,
		}
	}
	return nil
}

type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func (r *TTSRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return &ErrorResponse{Code: "missing_text", Message: "text is required"}
	}
	if utf8.RuneCountInString(r.Text) > MaxTTSTextLength {
		return &ErrorResponse{Code: "text_too_long", Message: "text must be at most 2500 characters"}
	}
	if r.Voice == "" {
		r.Voice = "Rachel"
	}
	return nil
}

// text columns in postgres reject U+0000, so it must never reach the store
func hasNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}
