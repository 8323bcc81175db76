// Package segment splits sanitized credit-report text into per-creditor
// entries using creditor-name anchors at line starts.
package segment

import (
	"regexp"
	"strings"
)

// creditorAnchors match major-creditor names at the start of a line. The last
// pattern is the generic "NAME ACCT/ACCOUNT/#" form covering creditors not in
// the named list.
var creditorAnchors = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:AMERICAN EXPRESS|AMEX|AM EX)\b`),
	regexp.MustCompile(`(?i)^\s*(?:CAPITAL ONE|CAP ONE|CAPITALONE)\b`),
	regexp.MustCompile(`(?i)^\s*(?:CHASE|JP MORGAN|JPMORGAN)\b`),
	regexp.MustCompile(`(?i)^\s*(?:DISCOVER|DISC)\b`),
	regexp.MustCompile(`(?i)^\s*(?:CITI|CITIBANK|CITIBK)\b`),
	regexp.MustCompile(`(?i)^\s*(?:WELLS FARGO|WFNNB)\b`),
	regexp.MustCompile(`(?i)^\s*(?:BANK OF AMERICA|BOA|BOFA)\b`),
	regexp.MustCompile(`(?i)^\s*(?:SYNCHRONY|SYNC)\b`),
	regexp.MustCompile(`(?i)^\s*(?:BARCLAYS|BARC)\b`),
	regexp.MustCompile(`^\s*[A-Z][A-Z\s&]{2,29}\s*(?:ACCT|ACCOUNT|#)`),
}

// DefaultMinEntryLength filters out fragments too short to describe a real
// tradeline (stray anchor matches in footers, column headers).
const DefaultMinEntryLength = 20

// Split breaks document text into per-creditor entries at anchor lines.
// Fragments shorter than minEntryLength are dropped. A zero-entry result
// means the caller should treat the whole document as a single
// fallback-eligible entry.
func Split(documentText string, minEntryLength int) []string {
	if minEntryLength <= 0 {
		minEntryLength = DefaultMinEntryLength
	}
	if strings.TrimSpace(documentText) == "" {
		return nil
	}

	lines := strings.Split(documentText, "\n")
	var anchorIdx []int
	for i, line := range lines {
		if isAnchorLine(line) {
			anchorIdx = append(anchorIdx, i)
		}
	}
	if len(anchorIdx) == 0 {
		return nil
	}

	var entries []string
	for n, start := range anchorIdx {
		end := len(lines)
		if n+1 < len(anchorIdx) {
			end = anchorIdx[n+1]
		}
		entry := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if len(entry) >= minEntryLength {
			entries = append(entries, entry)
		}
	}
	return entries
}

func isAnchorLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	for _, re := range creditorAnchors {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
