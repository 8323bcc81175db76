package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"creditpipe/internal/domain"
	"creditpipe/internal/extract"
	"creditpipe/internal/llm"
	"creditpipe/internal/port"
)

const defaultMaxJobAttempts = 5

// ReportPipeline is the pipeline surface the service depends on.
type ReportPipeline interface {
	Run(ctx context.Context, rawText string, userID uuid.UUID) (*extract.Result, error)
}

// ExtractionService coordinates report submission, pipeline runs, tradeline
// persistence, archival, and notifications.
type ExtractionService interface {
	SubmitReport(ctx context.Context, userID uuid.UUID, userEmail, rawText string) (*domain.ExtractionJob, error)
	ExtractSync(ctx context.Context, userID uuid.UUID, rawText string) (*extract.Result, error)
	ProcessJob(ctx context.Context, job *domain.ExtractionJob, maxAttempts int)
	RetryJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.ExtractionJob, error)
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.ExtractionJob, error)
}

type extractionService struct {
	jobRepo  port.JobRepository
	tlRepo   port.TradelineRepository
	pipeline ReportPipeline
	storage  port.ObjectStorage
	email    port.EmailSender
	bucket   string
}

// NewExtractionService creates a new ExtractionService. storage may be nil,
// in which case report archival is skipped.
func NewExtractionService(
	jobRepo port.JobRepository,
	tlRepo port.TradelineRepository,
	pipeline ReportPipeline,
	storage port.ObjectStorage,
	email port.EmailSender,
	bucket string,
) ExtractionService {
	return &extractionService{
		jobRepo:  jobRepo,
		tlRepo:   tlRepo,
		pipeline: pipeline,
		storage:  storage,
		email:    email,
		bucket:   bucket,
	}
}

func (s *extractionService) SubmitReport(ctx context.Context, userID uuid.UUID, userEmail, rawText string) (*domain.ExtractionJob, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrEmptyReportText
	}

	job := &domain.ExtractionJob{
		ID:        uuid.New(),
		UserID:    userID,
		UserEmail: userEmail,
		RawText:   rawText,
		Status:    domain.JobStatusQueued,
		Warnings:  domain.Warnings{},
	}

	// Archive the raw report before queueing; the job proceeds even if the
	// archive upload fails.
	if s.storage != nil {
		key := fmt.Sprintf("reports/%s/%s.txt", userID, job.ID)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.bucket,
			Key:         key,
			Body:        strings.NewReader(rawText),
			ContentType: "text/plain",
		})
		if err != nil {
			log.Printf("extractionService.SubmitReport: archiving report for job %s: %v", job.ID, err)
		} else {
			job.ArchiveKey = key
		}
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	log.Printf("extractionService.SubmitReport: job %s queued for user %s", job.ID, userID)
	return job, nil
}

func (s *extractionService) ExtractSync(ctx context.Context, userID uuid.UUID, rawText string) (*extract.Result, error) {
	result, err := s.pipeline.Run(ctx, rawText, userID)
	if err != nil && result == nil {
		return nil, err
	}
	if err != nil {
		// Partial failure: keep what extracted, surface the rest as warnings.
		result.Warnings = append(result.Warnings, fmt.Sprintf("some entries failed: %v", err))
	}

	for i := range result.Tradelines {
		if err := s.tlRepo.Upsert(ctx, &result.Tradelines[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ProcessJob runs the pipeline for a claimed job and finalizes it. Rate
// limited jobs under the attempts threshold are requeued with a retry_after;
// anything else failing is marked failed. Called by the queue worker with the
// job already in processing status and Attempts incremented.
func (s *extractionService) ProcessJob(ctx context.Context, job *domain.ExtractionJob, maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxJobAttempts
	}

	result, err := s.pipeline.Run(ctx, job.RawText, job.UserID)
	if err != nil && (result == nil || len(result.Tradelines) == 0) {
		s.handleExtractError(ctx, job, err, maxAttempts)
		return
	}
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("some entries failed: %v", err))
	}

	for i := range result.Tradelines {
		if upErr := s.tlRepo.Upsert(ctx, &result.Tradelines[i]); upErr != nil {
			s.handleExtractError(ctx, job, upErr, maxAttempts)
			return
		}
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusCompleted
	job.Error = ""
	job.Warnings = domain.Warnings(result.Warnings)
	job.TradelineCount = len(result.Tradelines)
	job.RetryAfter = nil
	job.CompletedAt = &now

	if err := s.jobRepo.Update(ctx, job); err != nil {
		log.Printf("extractionService.ProcessJob: failed to save results for job %s: %v", job.ID, err)
		return
	}
	log.Printf("extractionService.ProcessJob: job %s completed with %d tradelines", job.ID, job.TradelineCount)

	s.archiveResult(ctx, job, result)

	if s.email != nil && job.UserEmail != "" {
		if err := s.email.SendExtractionComplete(ctx, job.UserEmail, job.ID, job.TradelineCount); err != nil {
			log.Printf("extractionService.ProcessJob: notification for job %s: %v", job.ID, err)
		}
	}
}

// handleExtractError checks if the error is a rate limit and requeues the job
// if under the attempts threshold. Otherwise the job is marked failed.
func (s *extractionService) handleExtractError(ctx context.Context, job *domain.ExtractionJob, extractErr error, maxAttempts int) {
	var rlErr *llm.RateLimitError
	if errors.As(extractErr, &rlErr) && job.Attempts < maxAttempts {
		retryAt := time.Now().Add(rlErr.RetryAfter)
		job.Status = domain.JobStatusQueued
		job.Error = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		job.RetryAfter = &retryAt
		if err := s.jobRepo.Update(ctx, job); err != nil {
			log.Printf("extractionService.handleExtractError: failed to requeue job %s: %v", job.ID, err)
		} else {
			log.Printf("extractionService.handleExtractError: job %s requeued for retry after %s", job.ID, retryAt.Format(time.RFC3339))
		}
		return
	}
	s.failJob(ctx, job, fmt.Sprintf("extracting report: %v", extractErr))
}

func (s *extractionService) failJob(ctx context.Context, job *domain.ExtractionJob, errMsg string) {
	log.Printf("extractionService.failJob: job %s failed: %s", job.ID, errMsg)
	job.Status = domain.JobStatusFailed
	job.Error = errMsg
	job.RetryAfter = nil
	if err := s.jobRepo.Update(ctx, job); err != nil {
		log.Printf("extractionService.failJob: failed to update status for %s: %v", job.ID, err)
	}
	if s.email != nil && job.UserEmail != "" {
		if err := s.email.SendExtractionFailed(ctx, job.UserEmail, job.ID, errMsg); err != nil {
			log.Printf("extractionService.failJob: notification for job %s: %v", job.ID, err)
		}
	}
}

// archiveResult writes the extracted tradelines as JSON next to the raw
// report archive. Best effort.
func (s *extractionService) archiveResult(ctx context.Context, job *domain.ExtractionJob, result *extract.Result) {
	if s.storage == nil {
		return
	}
	payload, err := json.Marshal(result.Tradelines)
	if err != nil {
		log.Printf("extractionService.archiveResult: marshaling results for job %s: %v", job.ID, err)
		return
	}
	key := fmt.Sprintf("results/%s/%s.json", job.UserID, job.ID)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(payload),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("extractionService.archiveResult: uploading results for job %s: %v", job.ID, err)
	}
}

func (s *extractionService) RetryJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.ExtractionJob, error) {
	job, err := s.jobRepo.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusFailed {
		return nil, domain.ErrJobNotRetryable
	}

	job.Status = domain.JobStatusQueued
	job.Error = ""
	job.RetryAfter = nil
	job.Attempts = 0
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	log.Printf("extractionService.RetryJob: job %s requeued by user %s", job.ID, userID)
	return job, nil
}

func (s *extractionService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.ExtractionJob, error) {
	return s.jobRepo.GetByID(ctx, userID, jobID)
}
