// Package questions serves interview questions from an embedded YAML bank
package questions

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

//go:embed bank.yaml
var defaultBank []byte

const defaultCompany = "our company"

type Question struct {
	ID       string       `yaml:"id"`
	Stage    models.Stage `yaml:"stage"`
	Text     string       `yaml:"text"`
	Keywords []string     `yaml:"keywords"`
}

// View is the client-facing form of the question
func (q Question) View() models.QuestionView {
	return models.QuestionView{ID: q.ID, Text: q.Text, Stage: q.Stage}
}

type bankFile struct {
	Questions []Question `yaml:"questions"`
}

type Bank struct {
	questions []Question
	byID      map[string]Question
	byStage   map[models.Stage][]Question
}

// NewBank loads the embedded question bank
func NewBank() (*Bank, error) {
	return Parse(defaultBank)
}

// Parse builds a bank from YAML. Every stage must have at least one question.
func Parse(data []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	b := &Bank{
		byID:    make(map[string]Question),
		byStage: make(map[models.Stage][]Question),
	}
	for _, q := range file.Questions {
		if q.ID == "" || strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("question bank entry missing id or text: %+v", q)
		}
		if !q.Stage.IsValid() {
			return nil, fmt.Errorf("question %s has unknown stage %q", q.ID, q.Stage)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}
		b.questions = append(b.questions, q)
		b.byID[q.ID] = q
		b.byStage[q.Stage] = append(b.byStage[q.Stage], q)
	}

	for _, stage := range []models.Stage{
		models.StageIntroduction, models.StageWarmup, models.StageTechnical, models.StageDeep,
		models.StageBehavioral, models.StageSituational, models.StageClosing,
	} {
		if len(b.byStage[stage]) == 0 {
			return nil, fmt.Errorf("question bank has no %s questions", stage)
		}
	}
	return b, nil
}

// Next picks the first question of stage not yet asked, in bank order. When the stage is used up
// it falls back to any unasked question, then to the first question of the stage.
func (b *Bank) Next(stage models.Stage, askedIDs []string, position, company string) Question {
	asked := make(map[string]bool, len(askedIDs))
	for _, id := range askedIDs {
		asked[id] = true
	}

	candidates := b.byStage[stage]
	for _, q := range candidates {
		if !asked[q.ID] {
			return render(q, position, company)
		}
	}
	for _, q := range b.questions {
		if !asked[q.ID] {
			return render(q, position, company)
		}
	}
	if len(candidates) > 0 {
		return render(candidates[0], position, company)
	}
	return render(b.questions[0], position, company)
}

// Get returns the question with id, rendered
func (b *Bank) Get(id, position, company string) (Question, bool) {
	q, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return render(q, position, company), true
}

// Size is the number of questions in the bank
func (b *Bank) Size() int {
	return len(b.questions)
}

func render(q Question, position, company string) Question {
	if strings.TrimSpace(position) == "" {
		position = "this"
	}
	if strings.TrimSpace(company) == "" {
		company = defaultCompany
	}
	q.Text = strings.ReplaceAll(q.Text, "{{.Position}}", position)
	q.Text = strings.ReplaceAll(q.Text, "{{.Company}}", company)
	q.Keywords = append([]string(nil), q.Keywords...)
	return q
}
