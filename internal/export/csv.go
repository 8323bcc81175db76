package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"creditpipe/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Creditor Name",
	"Account Number",
	"Account Balance",
	"Credit Limit",
	"Monthly Payment",
	"Date Opened",
	"Account Type",
	"Account Status",
	"Credit Bureau",
	"Negative",
	"Dispute Count",
	"Created At",
	"Updated At",
}

// CSVWriter wraps csv.Writer for exporting tradelines as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteTradelines converts a batch of tradelines to CSV rows and writes them.
func (w *CSVWriter) WriteTradelines(tls []domain.Tradeline) error {
	for i := range tls {
		row := tradelineToRow(&tls[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func tradelineToRow(tl *domain.Tradeline) []string {
	row := make([]string, len(columns))
	row[0] = tl.CreditorName
	row[1] = tl.AccountNumber
	row[2] = tl.AccountBalance
	row[3] = tl.CreditLimit
	row[4] = tl.MonthlyPayment
	row[5] = tl.DateOpened
	row[6] = string(tl.AccountType)
	row[7] = string(tl.AccountStatus)
	row[8] = string(tl.CreditBureau)
	row[9] = formatBool(tl.IsNegative)
	row[10] = strconv.Itoa(tl.DisputeCount)
	row[11] = tl.CreatedAt.Format(time.RFC3339)
	row[12] = tl.UpdatedAt.Format(time.RFC3339)
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
