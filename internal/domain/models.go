package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tradeline is the authoritative output record of the extraction pipeline:
// one credit account as reported on a credit report. Every field carries a
// schema default, so a Tradeline is always fully populated.
type Tradeline struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	UserID         uuid.UUID     `db:"user_id" json:"user_id"`
	CreditorName   string        `db:"creditor_name" json:"creditor_name"`
	AccountNumber  string        `db:"account_number" json:"account_number"`
	AccountBalance string        `db:"account_balance" json:"account_balance"`
	CreditLimit    string        `db:"credit_limit" json:"credit_limit"`
	MonthlyPayment string        `db:"monthly_payment" json:"monthly_payment"`
	DateOpened     string        `db:"date_opened" json:"date_opened"`
	AccountType    AccountType   `db:"account_type" json:"account_type"`
	AccountStatus  AccountStatus `db:"account_status" json:"account_status"`
	CreditBureau   CreditBureau  `db:"credit_bureau" json:"credit_bureau"`
	IsNegative     bool          `db:"is_negative" json:"is_negative"`
	DisputeCount   int           `db:"dispute_count" json:"dispute_count"`
	RawText        string        `db:"raw_text" json:"raw_text"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Tradeline field defaults applied by the validator and the fallback builder.
const (
	DefaultMonetaryAmount = "$0"
	DefaultDateOpened     = "Unknown"
)

// ExtractionJob tracks one submitted credit report through the async pipeline.
type ExtractionJob struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	UserEmail      string     `db:"user_email" json:"user_email"`
	RawText        string     `db:"raw_text" json:"-"`
	Status         JobStatus  `db:"status" json:"status"`
	Attempts       int        `db:"attempts" json:"attempts"`
	Error          string     `db:"error" json:"error,omitempty"`
	Warnings       Warnings   `db:"warnings" json:"warnings"`
	TradelineCount int        `db:"tradeline_count" json:"tradeline_count"`
	ArchiveKey     string     `db:"archive_key" json:"-"`
	RetryAfter     *time.Time `db:"retry_after" json:"retry_after,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
