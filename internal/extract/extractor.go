package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"creditpipe/internal/accounts"
	"creditpipe/internal/domain"
	"creditpipe/internal/llm"
	"creditpipe/internal/port"
)

// Extractor runs the LLM extraction loop for a single report entry: prompt,
// streamed generation, response cleaning, critical-field check, and retry
// with exponential backoff.
type Extractor struct {
	generator      port.TextGenerator
	policy         RetryPolicy
	attemptTimeout time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewExtractor creates an Extractor. attemptTimeout bounds each individual
// provider call; zero disables the per-attempt deadline.
func NewExtractor(generator port.TextGenerator, policy RetryPolicy, attemptTimeout time.Duration) *Extractor {
	return &Extractor{
		generator:      generator,
		policy:         policy,
		attemptTimeout: attemptTimeout,
		sleep:          sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// EntryResult is the raw outcome of a successful entry extraction, prior to
// validation and defaulting.
type EntryResult struct {
	CleanedJSON string
	ModelUsed   string
	Attempts    int
}

// ExtractEntry extracts structured tradeline JSON from one entry. It retries
// transient failures up to the policy's MaxAttempts; the returned error on
// exhaustion wraps domain.ErrExtractionExhausted and the last provider error.
func (e *Extractor) ExtractEntry(ctx context.Context, entryText string, candidates []accounts.Candidate) (*EntryResult, error) {
	prompt := BuildTradelinePrompt(entryText, candidates)

	var lastErr error
	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := e.policy.NextDelay(attempt-1, llm.IsRateLimited(lastErr))
			log.Printf("extract.Extractor: attempt %d/%d failed, retrying in %s: %v",
				attempt, e.policy.MaxAttempts, delay, lastErr)
			if err := e.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		result, err := e.attempt(ctx, prompt)
		if err == nil {
			result.Attempts = attempt + 1
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrExtractionExhausted, e.policy.MaxAttempts, lastErr)
}

func (e *Extractor) attempt(ctx context.Context, prompt string) (*EntryResult, error) {
	attemptCtx := ctx
	if e.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()
	}

	var accumulated strings.Builder
	out, err := e.generator.Generate(attemptCtx, port.GenerateInput{
		Prompt: prompt,
		OnChunk: func(text string) {
			accumulated.WriteString(text)
		},
	})
	if err != nil {
		return nil, err
	}

	// Prefer the accumulated stream; fall back to the final text for
	// providers that never invoke the chunk callback.
	raw := accumulated.String()
	if strings.TrimSpace(raw) == "" {
		raw = out.Text
	}

	cleaned := CleanJSONResponse(raw)
	if err := checkCriticalFields(cleaned); err != nil {
		return nil, err
	}

	return &EntryResult{CleanedJSON: cleaned, ModelUsed: out.ModelUsed}, nil
}

var errMissingCriticalFields = errors.New("response missing critical fields")

// checkCriticalFields verifies the cleaned response parses as a JSON object
// carrying non-empty creditor_name and account_number. Anything else is a
// retryable failure.
func checkCriticalFields(cleaned string) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	for _, field := range []string{"creditor_name", "account_number"} {
		raw, ok := payload[field]
		if !ok {
			return fmt.Errorf("%w: %s absent", errMissingCriticalFields, field)
		}
		var val string
		if err := json.Unmarshal(raw, &val); err != nil {
			return fmt.Errorf("%w: %s is not a string", errMissingCriticalFields, field)
		}
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%w: %s empty", errMissingCriticalFields, field)
		}
	}
	return nil
}
