package export_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditpipe/internal/domain"
	"creditpipe/internal/export"
)

func sampleTradelines() []domain.Tradeline {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return []domain.Tradeline{
		{
			ID:             uuid.New(),
			UserID:         uuid.New(),
			CreditorName:   "Chase Bank",
			AccountNumber:  "1234",
			AccountBalance: "$500",
			CreditLimit:    "$1,000",
			MonthlyPayment: "$25",
			DateOpened:     "01/2020",
			AccountType:    domain.AccountTypeCreditCard,
			AccountStatus:  domain.AccountStatusOpen,
			CreditBureau:   domain.BureauEquifax,
			IsNegative:     false,
			DisputeCount:   0,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             uuid.New(),
			UserID:         uuid.New(),
			CreditorName:   "Midland Credit",
			AccountNumber:  "9876",
			AccountBalance: "$1,200",
			CreditLimit:    "$0",
			MonthlyPayment: "$0",
			DateOpened:     "Unknown",
			AccountType:    domain.AccountTypeCollection,
			AccountStatus:  domain.AccountStatusInCollection,
			CreditBureau:   domain.BureauTransUnion,
			IsNegative:     true,
			DisputeCount:   2,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

func TestCSVWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteTradelines(sampleTradelines()))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Creditor Name", header[0])
	assert.Equal(t, "Account Number", header[1])
	assert.Equal(t, "Negative", header[9])
	assert.Equal(t, "Updated At", header[12])

	first := records[1]
	assert.Equal(t, "Chase Bank", first[0])
	assert.Equal(t, "1234", first[1])
	assert.Equal(t, "$1,000", first[3])
	assert.Equal(t, "credit_card", first[6])
	assert.Equal(t, "No", first[9])
	assert.Equal(t, "0", first[10])

	second := records[2]
	assert.Equal(t, "Midland Credit", second[0])
	assert.Equal(t, "in_collection", second[7])
	assert.Equal(t, "Yes", second[9])
	assert.Equal(t, "2", second[10])
}

func TestCSVWriter_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteTradelines(nil))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tradelines", "tradelines"},
		{"my report.csv", "my_report_csv"},
		{"a/b\\c:d", "a_b_c_d"},
		{"__weird___name__", "weird_name"},
		{"dashes-and_underscores", "dashes-and_underscores"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, export.SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	got := export.SanitizeFilename(string(long))
	assert.Len(t, got, 100)
}

func TestBuildFilename(t *testing.T) {
	got := export.BuildFilename("tradelines", "csv")
	want := fmt.Sprintf("tradelines_%s.csv", time.Now().Format("2006-01-02"))
	assert.Equal(t, want, got)
}

func TestWriteXLSX(t *testing.T) {
	data, err := export.WriteXLSX(sampleTradelines())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Tradelines")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Creditor Name", rows[0][0])
	assert.Equal(t, "Chase Bank", rows[1][0])
	assert.Equal(t, "Midland Credit", rows[2][0])
	assert.Equal(t, "Yes", rows[2][9])
}
