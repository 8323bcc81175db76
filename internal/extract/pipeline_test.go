package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creditpipe/internal/config"
	"creditpipe/internal/domain"
	"creditpipe/internal/extract"
	"creditpipe/internal/llm"
	"creditpipe/mocks"
)

func pipelineCfg() config.PipelineConfig {
	return config.PipelineConfig{
		MaxRetries:           3,
		FallbackEnabled:      true,
		MinEntryLength:       20,
		ConfidenceThreshold:  0.3,
		MinAccountLength:     4,
		MaxAccountLength:     20,
		ContextLines:         1,
		IncludeBareDigitRuns: true,
	}
}

func newTestPipeline(gen *mocks.MockTextGenerator, cfg config.PipelineConfig, cacheCfg config.CacheConfig) *extract.Pipeline {
	extractor := extract.NewExtractor(gen, testPolicy(), time.Minute)
	return extract.NewPipeline(extractor, cfg, cacheCfg)
}

const (
	chaseJSON = `{"creditor_name":"Chase Bank","account_number":"1234","account_balance":"$500","credit_limit":"$1,000","monthly_payment":"$25","date_opened":"01/2020","is_negative":false,"account_type":"credit_card","account_status":"open","credit_bureau":"equifax","dispute_count":0}`
	capOneJSON = `{"creditor_name":"Capital One","account_number":"9876","account_balance":"$1,200","credit_limit":"$2,000","monthly_payment":"$50","date_opened":"06/2019","is_negative":true,"account_type":"credit_card","account_status":"charged_off","credit_bureau":"transunion","dispute_count":1}`
)

func TestPipeline_MultiEntryReport(t *testing.T) {
	doc := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Open Good Standing\n" +
		"CAPITAL ONE\nAccount Number: XXXX-9876\nStatus: Charge Off"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(genOutput(chaseJSON), nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return(genOutput(capOneJSON), nil).Once()

	p := newTestPipeline(gen, pipelineCfg(), config.CacheConfig{})
	userID := uuid.New()
	result, err := p.Run(context.Background(), doc, userID)

	require.NoError(t, err)
	require.Len(t, result.Tradelines, 2)
	assert.Equal(t, 2, result.EntryCount)

	// Output order follows document order.
	assert.Equal(t, "Chase Bank", result.Tradelines[0].CreditorName)
	assert.Equal(t, "Capital One", result.Tradelines[1].CreditorName)
	assert.Equal(t, userID, result.Tradelines[0].UserID)
	assert.True(t, result.Tradelines[1].IsNegative)
	gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestPipeline_EmptyInput(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	p := newTestPipeline(gen, pipelineCfg(), config.CacheConfig{})

	_, err := p.Run(context.Background(), "   \n ", uuid.New())
	assert.ErrorIs(t, err, domain.ErrEmptyReportText)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestPipeline_WholeDocumentWhenNoAnchors(t *testing.T) {
	doc := "Some account info 1234567890 with balance details"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(genOutput(chaseJSON), nil).Once()

	p := newTestPipeline(gen, pipelineCfg(), config.CacheConfig{})
	result, err := p.Run(context.Background(), doc, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 1, result.EntryCount)
	require.Len(t, result.Tradelines, 1)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestPipeline_FallbackOnPersistentFailure(t *testing.T) {
	doc := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Charge Off"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	p := newTestPipeline(gen, pipelineCfg(), config.CacheConfig{})
	result, err := p.Run(context.Background(), doc, uuid.New())

	require.NoError(t, err)
	require.Len(t, result.Tradelines, 1)

	tl := result.Tradelines[0]
	assert.Equal(t, "CHASE BANK", tl.CreditorName)
	assert.Equal(t, "1234", tl.AccountNumber)
	assert.Equal(t, domain.DefaultMonetaryAmount, tl.AccountBalance)
	assert.Equal(t, domain.DefaultDateOpened, tl.DateOpened)
	assert.True(t, tl.IsNegative)
	assert.Contains(t, tl.RawText, "CHASE BANK")
	assert.NotEmpty(t, result.Warnings)
}

func TestPipeline_NoFallbackCollectsErrors(t *testing.T) {
	doc := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Open Account"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 30))

	cfg := pipelineCfg()
	cfg.FallbackEnabled = false
	p := newTestPipeline(gen, cfg, config.CacheConfig{})

	result, err := p.Run(context.Background(), doc, uuid.New())

	require.Error(t, err)
	assert.Empty(t, result.Tradelines)
	assert.ErrorIs(t, err, domain.ErrExtractionExhausted)

	var rlErr *llm.RateLimitError
	assert.True(t, errors.As(err, &rlErr))
}

func TestPipeline_RetryBound(t *testing.T) {
	doc := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Open Account"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("transient failure"))

	p := newTestPipeline(gen, pipelineCfg(), config.CacheConfig{})
	_, err := p.Run(context.Background(), doc, uuid.New())

	require.NoError(t, err)
	// One entry, at most MaxAttempts provider calls.
	gen.AssertNumberOfCalls(t, "Generate", testPolicy().MaxAttempts)
}

func TestPipeline_CachesRepeatedEntries(t *testing.T) {
	doc := "CHASE BANK\nAccount Number: XXXX-1234\nStatus: Open Good Standing"

	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(genOutput(chaseJSON), nil).Once()

	cacheCfg := config.CacheConfig{Enabled: true, TTL: time.Minute, CleanupInterval: time.Minute}
	p := newTestPipeline(gen, pipelineCfg(), cacheCfg)

	userID := uuid.New()
	first, err := p.Run(context.Background(), doc, userID)
	require.NoError(t, err)
	require.Len(t, first.Tradelines, 1)

	second, err := p.Run(context.Background(), doc, userID)
	require.NoError(t, err)
	require.Len(t, second.Tradelines, 1)
	assert.Equal(t, first.Tradelines[0].CreditorName, second.Tradelines[0].CreditorName)

	gen.AssertNumberOfCalls(t, "Generate", 1)
}
