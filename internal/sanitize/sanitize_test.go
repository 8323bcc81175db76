package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"creditpipe/internal/sanitize"
)

func TestSanitize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", sanitize.Sanitize(""))
	assert.Equal(t, "", sanitize.Sanitize("   \n\t  "))
}

func TestSanitize_RemovesDates(t *testing.T) {
	out := sanitize.Sanitize("Balance as of 01/15/2024 is $500")
	assert.Equal(t, "Balance is $500", out)
	assert.NotContains(t, out, "01/15/2024")
}

func TestSanitize_RemovesBureauNames(t *testing.T) {
	out := sanitize.Sanitize("Equifax CHASE BANK")
	assert.Equal(t, "CHASE BANK", out)

	out = sanitize.Sanitize("TransUnion says account open")
	assert.NotContains(t, out, "TransUnion")
}

func TestSanitize_RemovesNoise(t *testing.T) {
	out := sanitize.Sanitize("CHASE | Account ____ 1234")
	assert.Equal(t, "CHASE Account 1234", out)
}

func TestSanitize_PreservesNewlines(t *testing.T) {
	out := sanitize.Sanitize("CHASE BANK\nBalance due $500")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "CHASE BANK", lines[0])
	assert.Equal(t, "Balance due $500", lines[1])
}

func TestSanitize_StripsNonPrintable(t *testing.T) {
	out := sanitize.Sanitize("CHASE​BANK")
	assert.Equal(t, "CHASEBANK", out)
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"CHASE BANK\nAccount Number: XXXX-1234\nBalance as of 01/15/2024: $500",
		"Page 3 of 10 | Generated by ReportTool\nCAPITAL ONE\nending in 9876",
		"plain text with no noise",
	}
	for _, in := range inputs {
		once := sanitize.Sanitize(in)
		twice := sanitize.Sanitize(once)
		assert.Equal(t, once, twice)
	}
}

func TestSanitize_RemovesBoilerplate(t *testing.T) {
	out := sanitize.Sanitize("Page 3 of 10\nCHASE BANK\nDocument ID: ABC123")
	assert.NotContains(t, out, "Page 3 of 10")
	assert.NotContains(t, out, "ABC123")
	assert.Contains(t, out, "CHASE BANK")
}
