package questions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

func TestNewBankLoadsEmbeddedQuestions(t *testing.T) {
	b, err := NewBank()
	require.NoError(t, err)
	assert.Greater(t, b.Size(), 20)
}

func TestNextSubstitutesPlaceholders(t *testing.T) {
	b, err := NewBank()
	require.NoError(t, err)

	q := b.Next(models.StageIntroduction, nil, "Backend Engineer", "Acme")
	assert.Equal(t, "intro-1", q.ID)
	assert.Contains(t, q.Text, "Backend Engineer role")
	assert.NotContains(t, q.Text, "{{")

	q = b.Next(models.StageIntroduction, []string{"intro-1"}, "Backend Engineer", "")
	assert.Equal(t, "intro-2", q.ID)
	assert.Contains(t, q.Text, "at our company")
}

func TestNextFallsBackWhenStageExhausted(t *testing.T) {
	bank := []byte(`
questions:
  - {id: a, stage: introduction, text: "A"}
  - {id: b, stage: warmup, text: "B"}
  - {id: c, stage: technical, text: "C"}
  - {id: d, stage: deep, text: "D"}
  - {id: e, stage: behavioral, text: "E"}
  - {id: f, stage: situational, text: "F"}
  - {id: g, stage: closing, text: "G"}
`)
	b, err := Parse(bank)
	require.NoError(t, err)

	q := b.Next(models.StageTechnical, []string{"c"}, "", "")
	assert.Equal(t, "a", q.ID)

	all := []string{"a", "b", "c", "d", "e", "f", "g"}
	q = b.Next(models.StageTechnical, all, "", "")
	assert.Equal(t, "c", q.ID)
}

func TestParseRejectsInvalidBanks(t *testing.T) {
	cases := map[string]string{
		"bad yaml":          "questions: [",
		"unknown stage":     "questions:\n  - {id: a, stage: lunch, text: A}",
		"missing text":      "questions:\n  - {id: a, stage: introduction}",
		"stage not covered": "questions:\n  - {id: a, stage: introduction, text: A}",
		"duplicate id":      "questions:\n  - {id: a, stage: introduction, text: A}\n  - {id: a, stage: warmup, text: B}",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestGetAndKeywordsAreCopied(t *testing.T) {
	b, err := NewBank()
	require.NoError(t, err)

	q, ok := b.Get("tech-2", "SRE", "Acme")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(q.Text, "How would you design a rate limiter"))
	q.Keywords[0] = "mutated"

	again, _ := b.Get("tech-2", "SRE", "Acme")
	assert.Equal(t, "token bucket", again.Keywords[0])

	_, ok = b.Get("nope", "", "")
	assert.False(t, ok)
}

func TestEveryActiveStageHasQuestions(t *testing.T) {
	b, err := NewBank()
	require.NoError(t, err)
	for _, stage := range []models.Stage{models.StageBehavioral, models.StageSituational, models.StageDeep} {
		q := b.Next(stage, nil, "PM", "Acme")
		assert.Equal(t, stage, q.Stage)
	}
}
