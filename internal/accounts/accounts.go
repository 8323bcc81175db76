// Package accounts recovers candidate account numbers from sanitized
// credit-report text using a ranked set of weighted regex patterns plus
// contextual confidence scoring. Candidates are hints for the extraction
// prompt, not authoritative values.
package accounts

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"creditpipe/internal/sanitize"
)

// MatchType classifies how much of the account number a pattern recovered.
type MatchType string

const (
	MatchFull    MatchType = "full"
	MatchPartial MatchType = "partial"
	MatchMasked  MatchType = "masked"
)

// Candidate is one potential account number found in the text.
type Candidate struct {
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	Context    string    `json:"context"`
	Confidence float64   `json:"confidence"`
	Type       MatchType `json:"type"`
	LineNumber int       `json:"line_number"`
}

// Config controls matching and scoring behavior.
type Config struct {
	IncludeContext      bool
	ContextLines        int
	MinAccountLength    int
	MaxAccountLength    int
	Deduplicate         bool
	ConfidenceThreshold float64

	// Bare digit runs are the weakest signal (base confidence 0.3) and match
	// anything from ZIP+4 codes to balances. They are kept for recall but can
	// be disabled for precision-sensitive callers.
	IncludeBareDigitRuns bool
}

// DefaultConfig returns the standard matcher configuration.
func DefaultConfig() Config {
	return Config{
		IncludeContext:       true,
		ContextLines:         1,
		MinAccountLength:     4,
		MaxAccountLength:     20,
		Deduplicate:          true,
		ConfidenceThreshold:  0.3,
		IncludeBareDigitRuns: true,
	}
}

// accountPattern pairs a regex with its base confidence and match type.
// Group 1 must capture the digit sequence.
type accountPattern struct {
	re         *regexp.Regexp
	confidence float64
	typ        MatchType
	bareRun    bool
}

var accountPatterns = []accountPattern{
	{regexp.MustCompile(`(?i)(?:Account\s*(?:Number|#)?[:\s]*#?\s*)?(\d{4,16})(?:X{2,}|\*{2,})`), 0.9, MatchMasked, false},
	{regexp.MustCompile(`(?i)(?:Acct\.?\s*(?:Number|#)?[:\-\s]*)?(\d{4,16})(?:X{2,}|\*{2,})`), 0.85, MatchMasked, false},
	{regexp.MustCompile(`(?i)(?:X{2,}|\*{2,})[-\s]?(\d{4,16})`), 0.8, MatchMasked, false},
	{regexp.MustCompile(`(?i)ending\s+in\s+(\d{4})`), 0.8, MatchPartial, false},
	{regexp.MustCompile(`(?i)(?:last|final)\s+(?:four|4)\s+(?:digits?)?[:\s]*(\d{4})`), 0.75, MatchPartial, false},
	{regexp.MustCompile(`(?i)(?:Account|Acct)\.?\s*(?:Number|#)?[:\s]*#?\s*(\d{4,20})\b`), 0.7, MatchFull, false},
	{regexp.MustCompile(`(?:^|\s)(\d{4,20})(?:\s|$)`), 0.3, MatchFull, true},
	{regexp.MustCompile(`(?i)#\s*(\d{4,16})(?:X{2,}|\*{2,}|\d*)`), 0.6, MatchMasked, false},
	{regexp.MustCompile(`(?i)(?:Card|Credit)\s+ending(?:\s+in)?\s+(\d{4})`), 0.8, MatchPartial, false},
}

var maskingRun = regexp.MustCompile(`X{2,}|\*{2,}|x{2,}`)

var positiveIndicators = []string{
	"account", "acct", "number", "card", "credit", "bank",
	"loan", "mortgage", "savings", "checking",
}

var negativeIndicators = []string{
	"phone", "ssn", "social", "zip", "code", "id", "license",
	"date", "time", "amount", "balance", "payment",
}

// Extract sanitizes text and returns candidate account numbers sorted by
// descending confidence. Candidates below the confidence threshold or outside
// the configured digit-length bounds are discarded.
func Extract(text string, cfg Config) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sanitized := sanitize.Sanitize(text)
	var lines []string
	for _, line := range strings.Split(sanitized, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var matches []Candidate
	for lineIdx, line := range lines {
		for _, p := range accountPatterns {
			if p.bareRun && !cfg.IncludeBareDigitRuns {
				continue
			}
			for _, m := range p.re.FindAllStringSubmatch(line, -1) {
				raw := strings.TrimSpace(m[0])
				digits := m[1]

				if len(digits) < cfg.MinAccountLength || len(digits) > cfg.MaxAccountLength {
					continue
				}

				context := extractContext(lines, lineIdx, cfg)
				confidence := scoreMatch(raw, digits, p.confidence, context)
				if confidence < cfg.ConfidenceThreshold {
					continue
				}

				matches = append(matches, Candidate{
					Raw:        raw,
					Normalized: digits,
					Context:    context,
					Confidence: confidence,
					Type:       p.typ,
					LineNumber: lineIdx,
				})
			}
		}
	}

	if cfg.Deduplicate {
		matches = dedupe(matches)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// scoreMatch adjusts a pattern's base confidence by digit length, contextual
// keywords, and masking format, then clamps to [0,1] and rounds to 2 decimals.
func scoreMatch(raw, digits string, base float64, context string) float64 {
	confidence := base

	n := len(digits)
	if n >= 8 && n <= 16 {
		confidence += 0.1
	}
	if n < 4 || n > 20 {
		confidence -= 0.3
	}

	contextLower := strings.ToLower(context)
	for _, kw := range positiveIndicators {
		if strings.Contains(contextLower, kw) {
			confidence += 0.1
		}
	}
	for _, kw := range negativeIndicators {
		if strings.Contains(contextLower, kw) {
			confidence -= 0.2
		}
	}

	if maskingRun.MatchString(raw) {
		confidence += 0.1
	}
	if n >= 10 {
		confidence += 0.1
	}

	confidence = math.Max(0, math.Min(1, confidence))
	return math.Round(confidence*100) / 100
}

func extractContext(lines []string, lineIdx int, cfg Config) string {
	if !cfg.IncludeContext {
		return ""
	}
	start := lineIdx - cfg.ContextLines
	if start < 0 {
		start = 0
	}
	end := lineIdx + cfg.ContextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	joined := strings.Join(lines[start:end], " ")
	return strings.TrimSpace(strings.Join(strings.Fields(joined), " "))
}

// dedupe keeps the highest-confidence candidate per normalized value.
func dedupe(matches []Candidate) []Candidate {
	best := make(map[string]Candidate, len(matches))
	var order []string
	for _, m := range matches {
		existing, ok := best[m.Normalized]
		if !ok {
			order = append(order, m.Normalized)
			best[m.Normalized] = m
			continue
		}
		if m.Confidence > existing.Confidence {
			best[m.Normalized] = m
		}
	}
	out := make([]Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
