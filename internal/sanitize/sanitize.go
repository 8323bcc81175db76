// Package sanitize strips OCR noise from raw credit-report text before any
// pattern matching or segmentation runs over it.
package sanitize

import (
	"regexp"
	"strings"
)

// temporalPatterns remove dates, timestamps, and date-bearing labels. Account
// numbers are digit runs, so stray dates are the main source of false matches
// downstream.
var temporalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2}(?:\.\d{3})?Z?)?\b`),
	regexp.MustCompile(`(?i)\bDate\s+(?:Opened|Closed|Created|Modified):\s*\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:Last|Next|Current)\s+(?:Update|Payment|Statement):\s*\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`(?i)\bAs\s+of\s+\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`(?i)\b\d{2}:\d{2}(?::\d{2})?\s*(?:AM|PM)?\b`),
}

// attributionPatterns remove bureau names and report-generation boilerplate.
var attributionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Experian|TransUnion|Equifax|FICO|VantageScore)\b`),
	regexp.MustCompile(`(?i)\b(?:Generated|Powered|Created|Produced)\s+by\s+\S+`),
	regexp.MustCompile(`(?i)\b(?:Report|Data|Information)\s+(?:from|by|via)\s+\S+`),
	regexp.MustCompile(`(?i)\bCopyright\s+©?\s*\d{4}`),
	regexp.MustCompile(`(?i)\b(?:Confidential|Internal|Private)\s+(?:Report|Document|Information)`),
	regexp.MustCompile(`(?i)\bPage\s+\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)\bDocument\s+ID:\s*\S+`),
}

// noisePatterns remove OCR artifacts and formatting remnants.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s*\|\s*`),
	regexp.MustCompile(`_{3,}`),
	regexp.MustCompile(`-{3,}`),
	regexp.MustCompile(`={3,}`),
	regexp.MustCompile(`\s*\.\s*\.\s*\.`),
	regexp.MustCompile(`(?i)\b(?:N/A|NULL|undefined)\b`),
}

var (
	horizontalWhitespace = regexp.MustCompile(`[^\S\r\n]+`)
	zeroWidthChars       = regexp.MustCompile("[\u200B-\u200D\uFEFF]")
	nonPrintableASCII    = regexp.MustCompile(`[^\x20-\x7E\r\n]`)
	multiSpace           = regexp.MustCompile(` +`)
)

// Sanitize strips temporal patterns, attribution boilerplate, and OCR noise
// from text. Pure and idempotent; empty input yields an empty string.
func Sanitize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	sanitized := text
	for _, groups := range [][]*regexp.Regexp{temporalPatterns, attributionPatterns, noisePatterns} {
		for _, p := range groups {
			sanitized = p.ReplaceAllString(sanitized, " ")
		}
	}

	sanitized = horizontalWhitespace.ReplaceAllString(sanitized, " ")
	sanitized = zeroWidthChars.ReplaceAllString(sanitized, "")
	sanitized = nonPrintableASCII.ReplaceAllString(sanitized, "")
	sanitized = multiSpace.ReplaceAllString(sanitized, " ")

	lines := strings.Split(sanitized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
