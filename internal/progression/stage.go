// Package progression derives the interview stage from how far through the question budget a
// session is. Nothing here is stored: the stage is recomputed from the answered count every turn.
package progression

import (
	"math"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

// Breakpoint maps every ratio below UpTo to a stage slot
type Breakpoint struct {
	UpTo float64
	Slot Slot
}

// Slot is a type-independent position in the interview arc
type Slot int

const (
	SlotIntroduction Slot = iota
	SlotWarmup
	SlotCore
	SlotDeep
	SlotClosing
)

// StageTable is the single breakpoint table for every interview type. Ratios at or above the
// last breakpoint land in SlotClosing.
var StageTable = []Breakpoint{
	{UpTo: 0.2, Slot: SlotIntroduction},
	{UpTo: 0.4, Slot: SlotWarmup},
	{UpTo: 0.7, Slot: SlotCore},
	{UpTo: 0.9, Slot: SlotDeep},
}

// slot -> stage name, per interview type
var stageNames = map[string]map[Slot]models.Stage{
	models.InterviewTypeMixed: {
		SlotIntroduction: models.StageIntroduction,
		SlotWarmup:       models.StageWarmup,
		SlotCore:         models.StageTechnical,
		SlotDeep:         models.StageDeep,
		SlotClosing:      models.StageClosing,
	},
	models.InterviewTypeTechnical: {
		SlotIntroduction: models.StageIntroduction,
		SlotWarmup:       models.StageWarmup,
		SlotCore:         models.StageTechnical,
		SlotDeep:         models.StageDeep,
		SlotClosing:      models.StageClosing,
	},
	models.InterviewTypeBehavioral: {
		SlotIntroduction: models.StageIntroduction,
		SlotWarmup:       models.StageWarmup,
		SlotCore:         models.StageBehavioral,
		SlotDeep:         models.StageSituational,
		SlotClosing:      models.StageClosing,
	},
}

// NextStage returns the stage of the question asked after answeredCount answers.
// Counts outside [0, totalQuestions] are clamped; unknown interview types are treated as mixed.
func NextStage(answeredCount, totalQuestions int, interviewType string) models.Stage {
	return stageNamesFor(interviewType)[slotFor(answeredCount, totalQuestions)]
}

// IsComplete reports whether every question of the session has been answered
func IsComplete(answeredCount, totalQuestions int) bool {
	return answeredCount >= totalQuestions
}

// TotalQuestions converts an interview duration to a question budget, one question per three minutes
func TotalQuestions(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 1
	}
	return int(math.Ceil(float64(durationMinutes) / 3))
}

// ActiveStages lists the stages an interview type passes through, in order
func ActiveStages(interviewType string) []models.Stage {
	names := stageNamesFor(interviewType)
	out := make([]models.Stage, 0, len(names))
	for slot := SlotIntroduction; slot <= SlotClosing; slot++ {
		out = append(out, names[slot])
	}
	return out
}

func slotFor(answeredCount, totalQuestions int) Slot {
	if totalQuestions <= 0 {
		return SlotClosing
	}
	if answeredCount < 0 {
		answeredCount = 0
	}
	ratio := float64(answeredCount) / float64(totalQuestions)
	for _, bp := range StageTable {
		if ratio < bp.UpTo {
			return bp.Slot
		}
	}
	return SlotClosing
}

func stageNamesFor(interviewType string) map[Slot]models.Stage {
	if names, ok := stageNames[interviewType]; ok {
		return names
	}
	return stageNames[models.InterviewTypeMixed]
}
