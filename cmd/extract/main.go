// Command extract runs the extraction pipeline on a local report file and
// prints the resulting tradelines as JSON. Useful for backfills and for
// inspecting pipeline output without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"creditpipe/internal/config"
	"creditpipe/internal/extract"
	"creditpipe/internal/llm"
	"creditpipe/internal/llm/gemini"
	"creditpipe/internal/llm/openai"
	"creditpipe/internal/port"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	filePath := flag.String("file", "", "report text file to process (default: stdin)")
	userIDStr := flag.String("user", "", "user id to stamp on tradelines (default: random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	userID := uuid.New()
	if *userIDStr != "" {
		userID, err = uuid.Parse(*userIDStr)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
	}

	var raw []byte
	if *filePath != "" {
		raw, err = os.ReadFile(*filePath)
		if err != nil {
			return fmt.Errorf("reading report file: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	llm.RegisterProvider("gemini", func(c *config.LLMProviderConfig) (port.TextGenerator, error) {
		return gemini.NewClient(c), nil
	})
	llm.RegisterProvider("openai", func(c *config.LLMProviderConfig) (port.TextGenerator, error) {
		return openai.NewClient(c), nil
	})

	primaryCfg := cfg.LLM.PrimaryConfig()
	generator, err := llm.NewGenerator(primaryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if secondaryCfg := cfg.LLM.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := llm.NewGenerator(secondaryCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize secondary LLM provider: %w", err)
		}
		generator = llm.NewFallbackGenerator(
			[]port.TextGenerator{generator, secondary},
			[]string{primaryCfg.Provider, secondaryCfg.Provider},
		)
	}

	policy := extract.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Pipeline.MaxRetries
	policy.BaseDelay = time.Duration(cfg.Pipeline.BaseDelayMs) * time.Millisecond
	extractor := extract.NewExtractor(generator, policy,
		time.Duration(cfg.Pipeline.AttemptTimeoutSecs)*time.Second)
	pipeline := extract.NewPipeline(extractor, cfg.Pipeline, config.CacheConfig{})

	result, err := pipeline.Run(context.Background(), string(raw), userID)
	if err != nil && result == nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	if err != nil {
		log.Printf("some entries failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"tradelines": result.Tradelines,
		"warnings":   result.Warnings,
		"entries":    result.EntryCount,
	})
}
