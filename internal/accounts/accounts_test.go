package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditpipe/internal/accounts"
)

func TestExtract_EmptyInput(t *testing.T) {
	assert.Nil(t, accounts.Extract("", accounts.DefaultConfig()))
	assert.Nil(t, accounts.Extract("   \n  ", accounts.DefaultConfig()))
}

func TestExtract_MaskPrefixForm(t *testing.T) {
	got := accounts.Extract("Account Number: XXXX-1234", accounts.DefaultConfig())

	require.Len(t, got, 1)
	assert.Equal(t, "1234", got[0].Normalized)
	assert.Equal(t, accounts.MatchMasked, got[0].Type)
	assert.GreaterOrEqual(t, got[0].Confidence, 0.8)
}

func TestExtract_ConfidenceBounds(t *testing.T) {
	text := "CHASE BANK\nAccount Number: XXXX-1234\nCard ending in 9876\nAcct # 1234567890123456\n5556667788"
	got := accounts.Extract(text, accounts.DefaultConfig())

	require.NotEmpty(t, got)
	for _, c := range got {
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	}
}

func TestExtract_SortedByConfidence(t *testing.T) {
	text := "some filler 433445566\nAccount Number: XXXX-1234\nmore filler 98873456"
	got := accounts.Extract(text, accounts.DefaultConfig())

	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
	assert.Equal(t, "1234", got[0].Normalized)
}

func TestExtract_Deduplicates(t *testing.T) {
	text := "Account Number: 1234567890\n1234567890"
	got := accounts.Extract(text, accounts.DefaultConfig())

	require.Len(t, got, 1)
	assert.Equal(t, "1234567890", got[0].Normalized)
	assert.GreaterOrEqual(t, got[0].Confidence, 0.7)

	cfg := accounts.DefaultConfig()
	cfg.Deduplicate = false
	got = accounts.Extract(text, cfg)
	assert.Greater(t, len(got), 1)
}

func TestExtract_BareRunFlag(t *testing.T) {
	text := "Look 123456 over"

	got := accounts.Extract(text, accounts.DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "123456", got[0].Normalized)

	cfg := accounts.DefaultConfig()
	cfg.IncludeBareDigitRuns = false
	assert.Empty(t, accounts.Extract(text, cfg))
}

func TestExtract_NegativeContextFiltered(t *testing.T) {
	// "phone" in context pulls a bare run below the default threshold.
	got := accounts.Extract("Phone: 5551234", accounts.DefaultConfig())
	assert.Empty(t, got)
}

func TestExtract_LengthBounds(t *testing.T) {
	// 21-digit run exceeds the default max of 20.
	got := accounts.Extract("123456789012345678901", accounts.DefaultConfig())
	assert.Empty(t, got)
}

func TestExtract_ContextIncluded(t *testing.T) {
	text := "CHASE BANK\nAccount Number: XXXX-1234\nBalance line"
	got := accounts.Extract(text, accounts.DefaultConfig())

	require.NotEmpty(t, got)
	assert.Contains(t, got[0].Context, "CHASE BANK")

	cfg := accounts.DefaultConfig()
	cfg.IncludeContext = false
	got = accounts.Extract(text, cfg)
	require.NotEmpty(t, got)
	assert.Equal(t, "", got[0].Context)
}
