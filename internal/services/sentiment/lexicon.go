package sentiment

import (
	"math"
	"strings"

	"StockPulse/internal/domain/models"
)

// Scorer is a lexicon-based sentiment scorer for financial news headlines.
// Stateless and deterministic: the same text always yields the same score.
type Scorer struct{}

func New() *Scorer { return &Scorer{} }

// Thresholds on the normalized compound score for the label.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// valence per lexicon token, roughly on a -4..4 scale.
var lexicon = map[string]float64{
	"gain": 1.6, "gains": 1.6, "gained": 1.6, "surge": 2.4, "surges": 2.4,
	"surged": 2.4, "rally": 2.0, "rallies": 2.0, "rallied": 2.0, "soar": 2.6,
	"soars": 2.6, "soared": 2.6, "jump": 1.8, "jumps": 1.8, "jumped": 1.8,
	"rise": 1.4, "rises": 1.4, "rose": 1.4, "record": 1.2, "beat": 1.8,
	"beats": 1.8, "strong": 1.7, "growth": 1.7, "profit": 1.9, "profits": 1.9,
	"profitable": 1.9, "upgrade": 2.0, "upgraded": 2.0, "outperform": 1.8,
	"bullish": 2.2, "boom": 2.1, "win": 1.7, "wins": 1.7, "winner": 1.7,
	"success": 1.9, "successful": 1.9, "positive": 1.6, "improve": 1.5,
	"improved": 1.5, "improving": 1.5, "expand": 1.3, "expands": 1.3,
	"expansion": 1.3, "buyback": 1.2, "dividend": 0.9, "optimistic": 1.8,
	"recovery": 1.4, "recovering": 1.4, "robust": 1.6, "momentum": 1.1,
	"breakthrough": 2.0, "innovative": 1.4, "opportunity": 1.2,

	"loss": -1.9, "losses": -1.9, "lose": -1.7, "loses": -1.7, "lost": -1.7,
	"fall": -1.4, "falls": -1.4, "fell": -1.4, "drop": -1.6, "drops": -1.6,
	"dropped": -1.6, "plunge": -2.6, "plunges": -2.6, "plunged": -2.6,
	"crash": -3.0, "crashes": -3.0, "crashed": -3.0, "slump": -2.2,
	"slumps": -2.2, "slumped": -2.2, "tumble": -2.2, "tumbles": -2.2,
	"tumbled": -2.2, "decline": -1.5, "declines": -1.5, "declined": -1.5,
	"weak": -1.6, "miss": -1.8, "misses": -1.8, "missed": -1.8,
	"downgrade": -2.0, "downgraded": -2.0, "underperform": -1.8,
	"bearish": -2.2, "fraud": -3.2, "scandal": -2.8, "lawsuit": -2.0,
	"investigation": -1.6, "probe": -1.4, "fine": -1.3, "fined": -1.3,
	"penalty": -1.5, "bankrupt": -3.4, "bankruptcy": -3.4, "default": -2.6,
	"debt": -1.2, "layoff": -2.1, "layoffs": -2.1, "cuts": -1.3,
	"negative": -1.6, "warning": -1.7, "warns": -1.7, "warned": -1.7,
	"risk": -1.1, "risks": -1.1, "fear": -1.8, "fears": -1.8,
	"concern": -1.3, "concerns": -1.3, "crisis": -2.5, "recession": -2.4,
	"volatile": -1.2, "uncertainty": -1.4, "sell-off": -2.0, "selloff": -2.0,
}

// negators flip the valence of the following lexicon token.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "hardly": true,
}

// Score computes a normalized compound score in [-1, 1] for the given text
// plus a coarse label at the conventional +-0.05 cutoffs.
func (s *Scorer) Score(text string) models.Sentiment {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		v, ok := lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			v = -v
		}
		sum += v
	}

	// VADER-style normalization keeps the compound score bounded.
	score := sum / math.Sqrt(sum*sum+15)

	label := "neutral"
	switch {
	case score >= positiveThreshold:
		label = "positive"
	case score <= negativeThreshold:
		label = "negative"
	}
	return models.Sentiment{Score: score, Label: label}
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return false
		}
		return true
	})
}
