package models

// Stage is a named phase of an interview
type Stage string

const (
	StageIntroduction Stage = "introduction"
	StageWarmup       Stage = "warmup"
	StageTechnical    Stage = "technical"
	StageBehavioral   Stage = "behavioral"
	StageDeep         Stage = "deep"
	StageSituational  Stage = "situational"
	StageClosing      Stage = "closing"
)

const (
	InterviewTypeTechnical  = "technical"
	InterviewTypeBehavioral = "behavioral"
	InterviewTypeMixed      = "mixed"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const (
	RecommendationStrongYes = "strong_yes"
	RecommendationYes       = "yes"
	RecommendationMaybe     = "maybe"
	RecommendationNo        = "no"
)

// ScoreSourceHeuristic marks records scored without the oracle
const ScoreSourceHeuristic = "heuristic"

// contains all valid interview types (in lowercase)
var ValidInterviewTypes = map[string]bool{
	InterviewTypeTechnical:  true,
	InterviewTypeBehavioral: true,
	InterviewTypeMixed:      true,
}

// contains all valid experience levels (in lowercase)
var ValidExperienceLevels = map[string]bool{
	"entry":  true,
	"junior": true,
	"mid":    true,
	"senior": true,
	"lead":   true,
}

var validStages = map[Stage]bool{
	StageIntroduction: true,
	StageWarmup:       true,
	StageTechnical:    true,
	StageBehavioral:   true,
	StageDeep:         true,
	StageSituational:  true,
	StageClosing:      true,
}

// IsValid reports whether s is one of the known stages
func (s Stage) IsValid() bool {
	return validStages[s]
}

func ValidInterviewTypesList() []string {
	return []string{InterviewTypeTechnical, InterviewTypeBehavioral, InterviewTypeMixed}
}

func ValidExperienceLevelsList() []string {
	return []string{"entry", "junior", "mid", "senior", "lead"}
}

const (
	DefaultExperienceLevel = "mid"
	MaxDurationMinutes     = 180
	MaxAnswerLength        = 10000
	MaxTTSTextLength       = 2500
)
