package port

import (
	"context"

	"github.com/google/uuid"

	"creditpipe/internal/domain"
)

// JobRepository persists extraction jobs and feeds the queue worker.
type JobRepository interface {
	Create(ctx context.Context, job *domain.ExtractionJob) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ExtractionJob, error)
	// ClaimQueued atomically moves up to limit due jobs (queued, with any
	// retry_after in the past) into processing status and returns them.
	ClaimQueued(ctx context.Context, limit int) ([]domain.ExtractionJob, error)
	Update(ctx context.Context, job *domain.ExtractionJob) error
}
