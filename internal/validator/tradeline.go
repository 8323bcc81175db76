package validator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"creditpipe/internal/accounts"
	"creditpipe/internal/domain"
)

// negativeIndicators are phrases that mark a tradeline as derogatory when
// they appear in the source text.
var negativeIndicators = []string{
	"charge off",
	"charged off",
	"collection",
	"delinquent",
	"late payment",
	"30 days late",
	"60 days late",
	"90 days late",
	"120 days late",
	"past due",
	"default",
	"foreclosure",
	"repossession",
	"bankruptcy",
}

// SanitizeAndValidate checks cleaned extraction JSON for the critical fields,
// then coerces the rest into a domain.Tradeline field by field. Missing or
// wrong-typed optional fields are defaulted and off-enum values degrade to
// unknown; every such repair is reported as a warning. Only a payload that is
// not an object or lacks a usable creditor_name or account_number is rejected.
func SanitizeAndValidate(cleanedJSON string, userID uuid.UUID, rawText string) (*domain.Tradeline, []string, error) {
	var payload any
	if err := json.Unmarshal([]byte(cleanedJSON), &payload); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling extraction output: %w", err)
	}
	if err := tradelineSchema.Validate(payload); err != nil {
		return nil, nil, fmt.Errorf("extraction output does not match schema: %w", err)
	}
	fields := payload.(map[string]any)

	var warnings []string
	now := time.Now().UTC()

	tl := &domain.Tradeline{
		ID:            uuid.New(),
		UserID:        userID,
		CreditorName:  strings.TrimSpace(fields["creditor_name"].(string)),
		AccountNumber: strings.TrimSpace(fields["account_number"].(string)),
		IsNegative:    coerceBool(fields, "is_negative", &warnings),
		DisputeCount:  coerceCount(fields, "dispute_count", &warnings),
		RawText:       rawText,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tl.AccountBalance = defaultMonetary(coerceString(fields, "account_balance", &warnings), "account_balance", &warnings)
	tl.CreditLimit = defaultMonetary(coerceString(fields, "credit_limit", &warnings), "credit_limit", &warnings)
	tl.MonthlyPayment = defaultMonetary(coerceString(fields, "monthly_payment", &warnings), "monthly_payment", &warnings)

	tl.DateOpened = coerceString(fields, "date_opened", &warnings)
	if tl.DateOpened == "" {
		tl.DateOpened = domain.DefaultDateOpened
		warnings = append(warnings, "date_opened missing, defaulted to Unknown")
	}

	tl.AccountType = normalizeAccountType(coerceString(fields, "account_type", &warnings), &warnings)
	tl.AccountStatus = normalizeAccountStatus(coerceString(fields, "account_status", &warnings), &warnings)
	tl.CreditBureau = normalizeCreditBureau(coerceString(fields, "credit_bureau", &warnings), &warnings)

	if tl.DisputeCount < 0 {
		tl.DisputeCount = 0
		warnings = append(warnings, "dispute_count negative, reset to 0")
	}

	// Collections are always derogatory.
	if (tl.AccountType == domain.AccountTypeCollection || tl.AccountStatus == domain.AccountStatusInCollection) && !tl.IsNegative {
		tl.IsNegative = true
		warnings = append(warnings, "collection account marked negative")
	}
	if !tl.IsNegative && containsNegativeIndicator(rawText) {
		tl.IsNegative = true
		warnings = append(warnings, "negative indicator found in source text, marked negative")
	}

	return tl, warnings, nil
}

func defaultMonetary(val, field string, warnings *[]string) string {
	val = strings.TrimSpace(val)
	if val == "" {
		*warnings = append(*warnings, field+" missing, defaulted to $0")
		return domain.DefaultMonetaryAmount
	}
	return val
}

// coerceString returns the field as a trimmed string. A wrong-typed value is
// cleared with a warning so downstream defaulting can repair it.
func coerceString(fields map[string]any, key string, warnings *[]string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("%s has wrong type %T, cleared", key, v))
		return ""
	}
	return strings.TrimSpace(s)
}

func coerceBool(fields map[string]any, key string, warnings *[]string) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			*warnings = append(*warnings, fmt.Sprintf("%s coerced from string %q", key, b))
			return parsed
		}
	}
	*warnings = append(*warnings, fmt.Sprintf("%s has wrong type %T, defaulted to false", key, v))
	return false
}

func coerceCount(fields map[string]any, key string, warnings *[]string) int {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			*warnings = append(*warnings, fmt.Sprintf("%s coerced from string %q", key, n))
			return parsed
		}
	}
	*warnings = append(*warnings, fmt.Sprintf("%s has wrong type %T, defaulted to 0", key, v))
	return 0
}

func normalizeAccountType(val string, warnings *[]string) domain.AccountType {
	t := domain.AccountType(strings.ToLower(strings.TrimSpace(val)))
	if _, ok := domain.ValidAccountTypes[t]; !ok {
		*warnings = append(*warnings, fmt.Sprintf("unrecognized account_type %q, cleared", val))
		return domain.AccountTypeUnknown
	}
	return t
}

func normalizeAccountStatus(val string, warnings *[]string) domain.AccountStatus {
	s := domain.AccountStatus(strings.ToLower(strings.TrimSpace(val)))
	if _, ok := domain.ValidAccountStatuses[s]; !ok {
		*warnings = append(*warnings, fmt.Sprintf("unrecognized account_status %q, cleared", val))
		return domain.AccountStatusUnknown
	}
	return s
}

func normalizeCreditBureau(val string, warnings *[]string) domain.CreditBureau {
	b := domain.CreditBureau(strings.ToLower(strings.TrimSpace(val)))
	if _, ok := domain.ValidCreditBureaus[b]; !ok {
		*warnings = append(*warnings, fmt.Sprintf("unrecognized credit_bureau %q, cleared", val))
		return domain.BureauUnknown
	}
	return b
}

func containsNegativeIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range negativeIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// creditorLinePattern recovers a creditor name from a leading run of
// uppercase words on the first line of an entry.
var creditorLinePattern = regexp.MustCompile(`^([A-Z][A-Z\s&'./-]{2,39})`)

// BuildFallback constructs a minimal tradeline from an entry whose LLM
// extraction failed. The creditor name is recovered from the entry's first
// line when possible and the best account number candidate is used as-is;
// the raw entry text is preserved verbatim for manual review.
func BuildFallback(rawText string, userID uuid.UUID, candidates []accounts.Candidate) *domain.Tradeline {
	now := time.Now().UTC()

	creditor := "Unknown Creditor"
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := creditorLinePattern.FindStringSubmatch(line); m != nil {
			creditor = strings.TrimSpace(m[1])
		}
		break
	}

	accountNumber := ""
	if len(candidates) > 0 {
		accountNumber = candidates[0].Normalized
	}

	return &domain.Tradeline{
		ID:             uuid.New(),
		UserID:         userID,
		CreditorName:   creditor,
		AccountNumber:  accountNumber,
		AccountBalance: domain.DefaultMonetaryAmount,
		CreditLimit:    domain.DefaultMonetaryAmount,
		MonthlyPayment: domain.DefaultMonetaryAmount,
		DateOpened:     domain.DefaultDateOpened,
		AccountType:    domain.AccountTypeUnknown,
		AccountStatus:  domain.AccountStatusUnknown,
		CreditBureau:   domain.BureauUnknown,
		IsNegative:     containsNegativeIndicator(rawText),
		RawText:        rawText,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
