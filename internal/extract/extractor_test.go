package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creditpipe/internal/domain"
	"creditpipe/internal/extract"
	"creditpipe/internal/port"
	"creditpipe/mocks"
)

func testPolicy() extract.RetryPolicy {
	return extract.RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
	}
}

func genOutput(text string) *port.GenerateOutput {
	return &port.GenerateOutput{Text: text, ModelUsed: "gemini-2.0-flash"}
}

const validTradelineJSON = `{"creditor_name":"Chase Bank","account_number":"1234"}`

func TestExtractor_SuccessFirstAttempt(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(genOutput("```json\n"+validTradelineJSON+"\n```"), nil)

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	res, err := e.ExtractEntry(context.Background(), "CHASE BANK entry text", nil)

	require.NoError(t, err)
	assert.Equal(t, validTradelineJSON, res.CleanedJSON)
	assert.Equal(t, "gemini-2.0-flash", res.ModelUsed)
	assert.Equal(t, 1, res.Attempts)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestExtractor_RetriesThenSucceeds(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("transient failure")).Twice()
	gen.On("Generate", mock.Anything, mock.Anything).Return(genOutput(validTradelineJSON), nil).Once()

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	res, err := e.ExtractEntry(context.Background(), "CHASE BANK entry text", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestExtractor_ExhaustsRetries(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("persistent failure"))

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	res, err := e.ExtractEntry(context.Background(), "CHASE BANK entry text", nil)

	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionExhausted)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestExtractor_MissingCriticalFieldRetries(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(genOutput(`{"creditor_name":"Chase Bank"}`), nil)

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	_, err := e.ExtractEntry(context.Background(), "CHASE BANK entry text", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionExhausted)
	assert.Contains(t, err.Error(), "account_number")
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestExtractor_NonJSONResponseRetries(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(genOutput("I could not find a tradeline here."), nil)

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	_, err := e.ExtractEntry(context.Background(), "CHASE BANK entry text", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionExhausted)
}

func TestExtractor_ContextCanceledStopsRetrying(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	ctx, cancel := context.WithCancel(context.Background())
	gen.On("Generate", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return(nil, errors.New("transient failure"))

	e := extract.NewExtractor(gen, testPolicy(), time.Minute)
	_, err := e.ExtractEntry(ctx, "CHASE BANK entry text", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}
