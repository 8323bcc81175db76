package noop

import (
	"context"
	"log"

	"github.com/google/uuid"

	"creditpipe/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendExtractionComplete(_ context.Context, toEmail string, jobID uuid.UUID, tradelineCount int) error {
	log.Printf("[NOOP EMAIL] Extraction complete for %s: job %s, %d tradelines", toEmail, jobID, tradelineCount)
	return nil
}

func (s *noopSender) SendExtractionFailed(_ context.Context, toEmail string, jobID uuid.UUID, reason string) error {
	log.Printf("[NOOP EMAIL] Extraction failed for %s: job %s: %s", toEmail, jobID, reason)
	return nil
}
