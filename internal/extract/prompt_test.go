package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"creditpipe/internal/accounts"
	"creditpipe/internal/extract"
)

func TestBuildTradelinePrompt_CandidateHints(t *testing.T) {
	candidates := []accounts.Candidate{
		{Raw: "XXXX-1234", Normalized: "1234", Type: accounts.MatchMasked, Confidence: 1.0},
		{Raw: "ending in 9876", Normalized: "9876", Type: accounts.MatchPartial, Confidence: 0.8},
	}

	p := extract.BuildTradelinePrompt("CHASE BANK\nAccount Number: XXXX-1234", candidates)

	assert.Contains(t, p, `raw "XXXX-1234", normalized "1234", match masked, confidence 1.00`)
	assert.Contains(t, p, `raw "ending in 9876", normalized "9876", match partial, confidence 0.80`)
	assert.Contains(t, p, "Prefer one of these for account_number")
	assert.Contains(t, p, "CHASE BANK")
	assert.Contains(t, p, `"creditor_name"`)
}

func TestBuildTradelinePrompt_AtMostFiveHints(t *testing.T) {
	var candidates []accounts.Candidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, accounts.Candidate{
			Raw:        "1234",
			Normalized: "1234",
			Type:       accounts.MatchFull,
			Confidence: 0.5,
		})
	}

	p := extract.BuildTradelinePrompt("entry text", candidates)

	assert.Equal(t, 5, strings.Count(p, "- raw "))
}

func TestBuildTradelinePrompt_NoCandidates(t *testing.T) {
	p := extract.BuildTradelinePrompt("entry text", nil)

	assert.NotContains(t, p, "candidates detected")
	assert.Contains(t, p, "entry text")
}
