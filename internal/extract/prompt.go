package extract

import (
	"fmt"
	"strings"

	"creditpipe/internal/accounts"
)

// BuildTradelinePrompt renders the extraction prompt for a single report
// entry. Detected account number candidates are included as hints so the
// model prefers numbers the pattern matcher already scored.
func BuildTradelinePrompt(entryText string, candidates []accounts.Candidate) string {
	var sb strings.Builder

	sb.WriteString(`You are a financial document parser. Extract the following fields from this credit report tradeline section and return ONLY a valid JSON object with no additional text, markdown, or explanations.

Required JSON format:
{
  "creditor_name": "string",
  "account_number": "string",
  "account_balance": "string",
  "credit_limit": "string",
  "monthly_payment": "string",
  "date_opened": "string",
  "is_negative": boolean,
  "account_type": "credit_card|loan|mortgage|auto_loan|student_loan|collection",
  "account_status": "open|closed|in_collection|charged_off|disputed",
  "credit_bureau": "equifax|transunion|experian",
  "dispute_count": number
}

Field constraints:
- account_type must be one of: "credit_card", "loan", "mortgage", "auto_loan", "student_loan", "collection"
- account_status must be one of: "open", "closed", "in_collection", "charged_off", "disputed"
- credit_bureau must be one of: "equifax", "transunion", "experian", or "" if not identifiable
- is_negative should be true for negative accounts, false otherwise
- Remove any markdown code blocks from your response
- credit_limit, account_balance, and monthly_payment default to "$0" if not found
- date_opened defaults to "Unknown" if not found
- dispute_count should be a number, default to 0
`)

	if len(candidates) > 0 {
		sb.WriteString("\nAccount number candidates detected in this section, highest confidence first. Prefer one of these for account_number whenever it appears in the text:\n")
		for i, c := range candidates {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "- raw %q, normalized %q, match %s, confidence %.2f\n", c.Raw, c.Normalized, c.Type, c.Confidence)
		}
	}

	sb.WriteString("\nTradeline text to parse:\n```\n")
	sb.WriteString(entryText)
	sb.WriteString("\n```\n\nReturn only the JSON object, no other text:")

	return sb.String()
}
