package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePositiveHeadline(t *testing.T) {
	s := New()
	got := s.Score("Shares surge after company beats profit estimates")
	assert.Greater(t, got.Score, 0.05)
	assert.Equal(t, "positive", got.Label)
}

func TestScoreNegativeHeadline(t *testing.T) {
	s := New()
	got := s.Score("Stock plunges on fraud investigation and bankruptcy fears")
	assert.Less(t, got.Score, -0.05)
	assert.Equal(t, "negative", got.Label)
}

func TestScoreEmptyText(t *testing.T) {
	s := New()
	got := s.Score("")
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, "neutral", got.Label)
}

func TestScoreNoLexiconHits(t *testing.T) {
	s := New()
	got := s.Score("Quarterly shareholder meeting scheduled for Tuesday")
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, "neutral", got.Label)
}

func TestScoreNegatorFlipsValence(t *testing.T) {
	s := New()
	plain := s.Score("The company is profitable")
	negated := s.Score("The company is not profitable")

	assert.Greater(t, plain.Score, 0.0)
	assert.Less(t, negated.Score, 0.0)
	assert.InDelta(t, -plain.Score, negated.Score, 1e-9)
}

func TestScoreBounded(t *testing.T) {
	s := New()
	got := s.Score("crash crash crash bankruptcy fraud plunge slump crisis recession layoffs")
	assert.GreaterOrEqual(t, got.Score, -1.0)
	assert.LessOrEqual(t, got.Score, 1.0)
	assert.Less(t, got.Score, -0.9, "stacked negative valence should approach the lower bound")
}

func TestScoreDeterministic(t *testing.T) {
	s := New()
	text := "Profits rise on strong growth despite debt concerns"
	a := s.Score(text)
	b := s.Score(text)
	assert.Equal(t, a, b)
}

func TestScoreCaseAndPunctuationInsensitive(t *testing.T) {
	s := New()
	a := s.Score("PROFITS SURGE!")
	b := s.Score("profits surge")
	assert.Equal(t, a, b)
}
