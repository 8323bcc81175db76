package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creditpipe/internal/config"
	"creditpipe/internal/email/noop"
	"creditpipe/internal/email/ses"
	"creditpipe/internal/extract"
	"creditpipe/internal/handler"
	"creditpipe/internal/llm"
	"creditpipe/internal/llm/gemini"
	"creditpipe/internal/llm/openai"
	"creditpipe/internal/port"
	"creditpipe/internal/repository/postgres"
	"creditpipe/internal/router"
	"creditpipe/internal/service"
	s3storage "creditpipe/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(context.Background(), &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tlRepo := postgres.NewTradelineRepo(db)
	jobRepo := postgres.NewJobRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize LLM generator chain and pipeline
	generator, err := buildGenerator(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	pipeline := buildPipeline(cfg, generator)

	// Initialize services
	extractionSvc := service.NewExtractionService(jobRepo, tlRepo, pipeline, s3Client, emailSender, cfg.S3.Bucket)

	// Initialize handlers
	reportH := handler.NewReportHandler(extractionSvc)
	tradelineH := handler.NewTradelineHandler(tlRepo)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, reportH, tradelineH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the extraction queue worker
	worker := service.NewQueueWorker(jobRepo, extractionSvc, service.QueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Printf("Shutdown complete")

	return nil
}

// buildGenerator wires the configured providers into a text generator. When a
// secondary provider is configured the primary is wrapped in a fallback chain.
func buildGenerator(cfg *config.Config) (port.TextGenerator, error) {
	llm.RegisterProvider("gemini", func(c *config.LLMProviderConfig) (port.TextGenerator, error) {
		return gemini.NewClient(c), nil
	})
	llm.RegisterProvider("openai", func(c *config.LLMProviderConfig) (port.TextGenerator, error) {
		return openai.NewClient(c), nil
	})

	primaryCfg := cfg.LLM.PrimaryConfig()
	primary, err := llm.NewGenerator(primaryCfg)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.LLM.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := llm.NewGenerator(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return llm.NewFallbackGenerator(
		[]port.TextGenerator{primary, secondary},
		[]string{primaryCfg.Provider, secondaryCfg.Provider},
	), nil
}

func buildPipeline(cfg *config.Config, generator port.TextGenerator) *extract.Pipeline {
	policy := extract.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Pipeline.MaxRetries
	policy.BaseDelay = time.Duration(cfg.Pipeline.BaseDelayMs) * time.Millisecond

	extractor := extract.NewExtractor(generator, policy,
		time.Duration(cfg.Pipeline.AttemptTimeoutSecs)*time.Second)
	return extract.NewPipeline(extractor, cfg.Pipeline, cfg.Cache)
}
