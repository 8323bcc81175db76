package port

import (
	"context"

	"github.com/google/uuid"
)

// EmailSender defines the contract for sending job notifications.
type EmailSender interface {
	SendExtractionComplete(ctx context.Context, toEmail string, jobID uuid.UUID, tradelineCount int) error
	SendExtractionFailed(ctx context.Context, toEmail string, jobID uuid.UUID, reason string) error
}
