package segment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditpipe/internal/segment"
)

func TestSplit_EmptyInput(t *testing.T) {
	assert.Nil(t, segment.Split("", segment.DefaultMinEntryLength))
	assert.Nil(t, segment.Split("   \n  ", segment.DefaultMinEntryLength))
}

func TestSplit_NoAnchors(t *testing.T) {
	got := segment.Split("just some random report text without creditor names", segment.DefaultMinEntryLength)
	assert.Nil(t, got)
}

func TestSplit_TwoCreditors(t *testing.T) {
	doc := strings.Join([]string{
		"CHASE BANK",
		"Account: 1234",
		"Balance: $500",
		"CAPITAL ONE",
		"Account: 9876",
		"Status: Past Due",
	}, "\n")

	got := segment.Split(doc, segment.DefaultMinEntryLength)

	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "CHASE BANK"))
	assert.Contains(t, got[0], "Balance: $500")
	assert.NotContains(t, got[0], "CAPITAL ONE")
	assert.True(t, strings.HasPrefix(got[1], "CAPITAL ONE"))
	assert.Contains(t, got[1], "Past Due")
}

func TestSplit_CaseInsensitiveAnchors(t *testing.T) {
	doc := "wells fargo home mortgage\nAccount: 1234567890\nBalance: $150,000"
	got := segment.Split(doc, segment.DefaultMinEntryLength)
	require.Len(t, got, 1)
}

func TestSplit_GenericAnchor(t *testing.T) {
	doc := "FIRST NATIONAL ACCT 1234\nBalance: $2,500 past due"
	got := segment.Split(doc, segment.DefaultMinEntryLength)
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "FIRST NATIONAL"))
}

func TestSplit_DropsShortFragments(t *testing.T) {
	got := segment.Split("CHASE\nok", segment.DefaultMinEntryLength)
	assert.Empty(t, got)
}

func TestSplit_LeadingTextBeforeFirstAnchor(t *testing.T) {
	doc := "Consumer credit summary for review\nDISCOVER\nAccount: 1234\nBalance: $300"
	got := segment.Split(doc, segment.DefaultMinEntryLength)

	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "DISCOVER"))
	assert.NotContains(t, got[0], "summary")
}
