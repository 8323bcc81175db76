package domain

// AccountType classifies a tradeline by the kind of credit account it reports.
type AccountType string

const (
	AccountTypeCreditCard  AccountType = "credit_card"
	AccountTypeLoan        AccountType = "loan"
	AccountTypeMortgage    AccountType = "mortgage"
	AccountTypeAutoLoan    AccountType = "auto_loan"
	AccountTypeStudentLoan AccountType = "student_loan"
	AccountTypeCollection  AccountType = "collection"
	AccountTypeUnknown     AccountType = ""
)

// ValidAccountTypes is the closed set of account types accepted by the validator.
var ValidAccountTypes = map[AccountType]bool{
	AccountTypeCreditCard:  true,
	AccountTypeLoan:        true,
	AccountTypeMortgage:    true,
	AccountTypeAutoLoan:    true,
	AccountTypeStudentLoan: true,
	AccountTypeCollection:  true,
	AccountTypeUnknown:     true,
}

// AccountStatus describes the reported standing of a tradeline.
type AccountStatus string

const (
	AccountStatusOpen         AccountStatus = "open"
	AccountStatusClosed       AccountStatus = "closed"
	AccountStatusInCollection AccountStatus = "in_collection"
	AccountStatusChargedOff   AccountStatus = "charged_off"
	AccountStatusDisputed     AccountStatus = "disputed"
	AccountStatusUnknown      AccountStatus = ""
)

// ValidAccountStatuses is the closed set of account statuses accepted by the validator.
var ValidAccountStatuses = map[AccountStatus]bool{
	AccountStatusOpen:         true,
	AccountStatusClosed:       true,
	AccountStatusInCollection: true,
	AccountStatusChargedOff:   true,
	AccountStatusDisputed:     true,
	AccountStatusUnknown:      true,
}

// CreditBureau identifies which bureau reported a tradeline.
type CreditBureau string

const (
	BureauEquifax    CreditBureau = "equifax"
	BureauTransUnion CreditBureau = "transunion"
	BureauExperian   CreditBureau = "experian"
	BureauUnknown    CreditBureau = ""
)

// ValidCreditBureaus is the closed set of bureaus accepted by the validator.
var ValidCreditBureaus = map[CreditBureau]bool{
	BureauEquifax:    true,
	BureauTransUnion: true,
	BureauExperian:   true,
	BureauUnknown:    true,
}

// JobStatus represents the lifecycle of an extraction job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)
