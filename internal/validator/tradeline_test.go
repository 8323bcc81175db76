package validator_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditpipe/internal/accounts"
	"creditpipe/internal/domain"
	"creditpipe/internal/validator"
)

const completeJSON = `{
	"creditor_name": "Chase Bank",
	"account_number": "1234",
	"account_balance": "$500",
	"credit_limit": "$1,000",
	"monthly_payment": "$25",
	"date_opened": "01/2020",
	"is_negative": false,
	"account_type": "credit_card",
	"account_status": "open",
	"credit_bureau": "equifax",
	"dispute_count": 0
}`

func TestSanitizeAndValidate_CompletePayload(t *testing.T) {
	userID := uuid.New()
	rawText := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Open Good Standing"

	tl, warnings, err := validator.SanitizeAndValidate(completeJSON, userID, rawText)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, userID, tl.UserID)
	assert.Equal(t, "Chase Bank", tl.CreditorName)
	assert.Equal(t, "1234", tl.AccountNumber)
	assert.Equal(t, "$500", tl.AccountBalance)
	assert.Equal(t, "$1,000", tl.CreditLimit)
	assert.Equal(t, "$25", tl.MonthlyPayment)
	assert.Equal(t, "01/2020", tl.DateOpened)
	assert.False(t, tl.IsNegative)
	assert.Equal(t, domain.AccountTypeCreditCard, tl.AccountType)
	assert.Equal(t, domain.AccountStatusOpen, tl.AccountStatus)
	assert.Equal(t, domain.BureauEquifax, tl.CreditBureau)
	assert.Equal(t, 0, tl.DisputeCount)
	assert.Equal(t, rawText, tl.RawText)
	assert.NotEqual(t, uuid.Nil, tl.ID)
}

func TestSanitizeAndValidate_DefaultsMissingFields(t *testing.T) {
	payload := `{"creditor_name":"Chase Bank","account_number":"1234"}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Chase entry text")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.AccountBalance)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.CreditLimit)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.MonthlyPayment)
	assert.Equal(t, domain.DefaultDateOpened, tl.DateOpened)
	assert.Equal(t, domain.AccountTypeUnknown, tl.AccountType)
	assert.Equal(t, domain.AccountStatusUnknown, tl.AccountStatus)
	assert.Equal(t, domain.BureauUnknown, tl.CreditBureau)

	assert.Contains(t, warnings, "account_balance missing, defaulted to $0")
	assert.Contains(t, warnings, "credit_limit missing, defaulted to $0")
	assert.Contains(t, warnings, "monthly_payment missing, defaulted to $0")
	assert.Contains(t, warnings, "date_opened missing, defaulted to Unknown")
}

func TestSanitizeAndValidate_CollectionImpliesNegative(t *testing.T) {
	payload := `{
		"creditor_name": "Midland Credit",
		"account_number": "5555",
		"is_negative": false,
		"account_type": "collection",
		"account_status": "in_collection"
	}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Midland Credit entry")

	require.NoError(t, err)
	assert.True(t, tl.IsNegative)
	assert.Contains(t, warnings, "collection account marked negative")
}

func TestSanitizeAndValidate_NegativeIndicatorInSourceText(t *testing.T) {
	payload := `{"creditor_name":"Chase Bank","account_number":"1234","is_negative":false,"account_type":"credit_card","account_status":"open"}`
	rawText := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Charge Off"

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), rawText)

	require.NoError(t, err)
	assert.True(t, tl.IsNegative)
	assert.Contains(t, warnings, "negative indicator found in source text, marked negative")
}

func TestSanitizeAndValidate_ClearsUnrecognizedEnums(t *testing.T) {
	payload := `{
		"creditor_name": "Chase Bank",
		"account_number": "1234",
		"account_type": "space_mortgage",
		"account_status": "vaporized",
		"credit_bureau": "acme_bureau"
	}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Chase entry text")

	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeUnknown, tl.AccountType)
	assert.Equal(t, domain.AccountStatusUnknown, tl.AccountStatus)
	assert.Equal(t, domain.BureauUnknown, tl.CreditBureau)
	assert.Contains(t, warnings, `unrecognized account_type "space_mortgage", cleared`)
	assert.Contains(t, warnings, `unrecognized account_status "vaporized", cleared`)
	assert.Contains(t, warnings, `unrecognized credit_bureau "acme_bureau", cleared`)
}

func TestSanitizeAndValidate_CoercesStringTypedFields(t *testing.T) {
	payload := `{
		"creditor_name": "Chase Bank",
		"account_number": "1234",
		"account_balance": "$500",
		"is_negative": "true",
		"dispute_count": "2"
	}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Chase entry text")

	require.NoError(t, err)
	assert.Equal(t, "$500", tl.AccountBalance)
	assert.True(t, tl.IsNegative)
	assert.Equal(t, 2, tl.DisputeCount)
	assert.Contains(t, warnings, `is_negative coerced from string "true"`)
	assert.Contains(t, warnings, `dispute_count coerced from string "2"`)
}

func TestSanitizeAndValidate_WrongTypedFieldsDefaulted(t *testing.T) {
	payload := `{
		"creditor_name": "Chase Bank",
		"account_number": "1234",
		"account_balance": 500,
		"is_negative": 1,
		"dispute_count": true,
		"account_type": 42
	}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Chase entry text")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.AccountBalance)
	assert.False(t, tl.IsNegative)
	assert.Equal(t, 0, tl.DisputeCount)
	assert.Equal(t, domain.AccountTypeUnknown, tl.AccountType)

	// One wrong-typed field never rejects the entry; the good fields survive.
	assert.Equal(t, "Chase Bank", tl.CreditorName)
	assert.Equal(t, "1234", tl.AccountNumber)
	assert.Contains(t, warnings, "account_balance has wrong type float64, cleared")
	assert.Contains(t, warnings, "is_negative has wrong type float64, defaulted to false")
	assert.Contains(t, warnings, "dispute_count has wrong type bool, defaulted to 0")
}

func TestSanitizeAndValidate_NegativeDisputeCountReset(t *testing.T) {
	payload := `{"creditor_name":"Chase Bank","account_number":"1234","dispute_count":-2}`

	tl, warnings, err := validator.SanitizeAndValidate(payload, uuid.New(), "Chase entry text")

	require.NoError(t, err)
	assert.Equal(t, 0, tl.DisputeCount)
	assert.Contains(t, warnings, "dispute_count negative, reset to 0")
}

func TestSanitizeAndValidate_RejectsMissingCreditorName(t *testing.T) {
	payload := `{"account_number":"1234"}`

	tl, _, err := validator.SanitizeAndValidate(payload, uuid.New(), "entry text")

	assert.Nil(t, tl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestSanitizeAndValidate_RejectsEmptyAccountNumber(t *testing.T) {
	payload := `{"creditor_name":"Chase Bank","account_number":""}`

	tl, _, err := validator.SanitizeAndValidate(payload, uuid.New(), "entry text")

	assert.Nil(t, tl)
	require.Error(t, err)
}

func TestSanitizeAndValidate_RejectsNonJSON(t *testing.T) {
	tl, _, err := validator.SanitizeAndValidate("not json at all", uuid.New(), "entry text")

	assert.Nil(t, tl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling")
}

func TestBuildFallback_RecoversCreditorAndAccount(t *testing.T) {
	userID := uuid.New()
	rawText := "CHASE BANK\nAccount Number: XXXX-1234\nBalance: $500"
	candidates := []accounts.Candidate{{Raw: "XXXX-1234", Normalized: "1234", Confidence: 1.0}}

	tl := validator.BuildFallback(rawText, userID, candidates)

	assert.Equal(t, userID, tl.UserID)
	assert.Equal(t, "CHASE BANK", tl.CreditorName)
	assert.Equal(t, "1234", tl.AccountNumber)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.AccountBalance)
	assert.Equal(t, domain.DefaultDateOpened, tl.DateOpened)
	assert.Equal(t, domain.AccountTypeUnknown, tl.AccountType)
	assert.False(t, tl.IsNegative)
	assert.Equal(t, rawText, tl.RawText)
}

func TestBuildFallback_UnknownCreditorWhenNoUppercaseLine(t *testing.T) {
	tl := validator.BuildFallback("some lowercase text\nmore text", uuid.New(), nil)

	assert.Equal(t, "Unknown Creditor", tl.CreditorName)
	assert.Empty(t, tl.AccountNumber)
}

func TestBuildFallback_NegativeIndicators(t *testing.T) {
	tl := validator.BuildFallback("CHASE BANK\nStatus: Charge Off", uuid.New(), nil)
	assert.True(t, tl.IsNegative)

	tl = validator.BuildFallback("CHASE BANK\nStatus: Open", uuid.New(), nil)
	assert.False(t, tl.IsNegative)
}
