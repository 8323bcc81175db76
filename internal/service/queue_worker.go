package service

import (
	"context"
	"log"
	"sync"
	"time"

	"creditpipe/internal/port"
)

// QueueConfig holds settings for the extraction queue worker.
type QueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// QueueWorker polls for queued extraction jobs and dispatches them.
type QueueWorker struct {
	jobRepo    port.JobRepository
	extraction ExtractionService
	cfg        QueueConfig
	wg         sync.WaitGroup
}

// NewQueueWorker creates a new QueueWorker.
func NewQueueWorker(jobRepo port.JobRepository, extraction ExtractionService, cfg QueueConfig) *QueueWorker {
	return &QueueWorker{
		jobRepo:    jobRepo,
		extraction: extraction,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extraction goroutines have finished.
func (w *QueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("queueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("queueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("queueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, exit gracefully
					continue
				}
				log.Printf("queueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine
				job.Attempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight extractions complete even during shutdown.
					extractCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("queueWorker: dispatching job %s (attempt %d)", job.ID, job.Attempts)
					w.extraction.ProcessJob(extractCtx, &job, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
