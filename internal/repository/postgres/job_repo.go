package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"creditpipe/internal/domain"
	"creditpipe/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.ExtractionJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO extraction_jobs (
		id, user_id, user_email, raw_text, status, attempts,
		error, warnings, tradeline_count, archive_key, retry_after,
		created_at, updated_at, completed_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14
	)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.UserEmail, job.RawText, job.Status, job.Attempts,
		job.Error, job.Warnings, job.TradelineCount, job.ArchiveKey, job.RetryAfter,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM extraction_jobs WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	return &job, nil
}

func (r *jobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ExtractionJob, error) {
	var jobs []domain.ExtractionJob
	// SKIP LOCKED lets multiple workers poll the same table without
	// claiming each other's jobs.
	err := r.db.SelectContext(ctx, &jobs,
		`UPDATE extraction_jobs SET status = 'processing', updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM extraction_jobs
			WHERE status = 'queued' AND (retry_after IS NULL OR retry_after <= NOW())
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`, limit)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.ClaimQueued: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.ExtractionJob) error {
	job.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE extraction_jobs SET
			status = $1, attempts = $2, error = $3, warnings = $4,
			tradeline_count = $5, archive_key = $6, retry_after = $7,
			updated_at = $8, completed_at = $9
		 WHERE id = $10`,
		job.Status, job.Attempts, job.Error, job.Warnings,
		job.TradelineCount, job.ArchiveKey, job.RetryAfter,
		job.UpdatedAt, job.CompletedAt,
		job.ID)
	if err != nil {
		return fmt.Errorf("jobRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
