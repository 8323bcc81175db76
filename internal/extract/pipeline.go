package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/google/uuid"

	"creditpipe/internal/accounts"
	"creditpipe/internal/config"
	"creditpipe/internal/domain"
	"creditpipe/internal/sanitize"
	"creditpipe/internal/segment"
	"creditpipe/internal/validator"
)

// Pipeline runs the full report-to-tradelines flow: sanitize, detect account
// number candidates, segment into entries, extract each entry via the LLM,
// and validate or fall back. Entries are processed sequentially and output
// order matches document order.
type Pipeline struct {
	extractor *Extractor
	cfg       config.PipelineConfig
	cache     *gocache.Cache
}

// Result is the outcome of a pipeline run.
type Result struct {
	Tradelines []domain.Tradeline
	Warnings   domain.Warnings
	EntryCount int
}

// NewPipeline creates a Pipeline. The cache (keyed by entry text digest,
// storing cleaned extraction JSON) is optional; pass nil cacheCfg.Enabled
// false to disable it.
func NewPipeline(extractor *Extractor, cfg config.PipelineConfig, cacheCfg config.CacheConfig) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		cfg:       cfg,
	}
	if cacheCfg.Enabled {
		p.cache = gocache.New(cacheCfg.TTL, cacheCfg.CleanupInterval)
	}
	return p
}

func (p *Pipeline) accountsConfig() accounts.Config {
	return accounts.Config{
		IncludeContext:       true,
		ContextLines:         p.cfg.ContextLines,
		MinAccountLength:     p.cfg.MinAccountLength,
		MaxAccountLength:     p.cfg.MaxAccountLength,
		Deduplicate:          true,
		ConfidenceThreshold:  p.cfg.ConfidenceThreshold,
		IncludeBareDigitRuns: p.cfg.IncludeBareDigitRuns,
	}
}

// Run processes a raw report for a user. When fallback is enabled every
// entry yields a tradeline (fallback rows carry warnings); when disabled,
// failed entries are dropped and their errors joined into the returned
// error alongside any successful tradelines.
func (p *Pipeline) Run(ctx context.Context, rawText string, userID uuid.UUID) (*Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrEmptyReportText
	}

	sanitized := sanitize.Sanitize(rawText)
	if sanitized == "" {
		return nil, domain.ErrEmptyReportText
	}

	entries := segment.Split(sanitized, p.cfg.MinEntryLength)
	if len(entries) == 0 {
		// No creditor anchors found; treat the whole document as one entry.
		entries = []string{sanitized}
	}

	accountsCfg := p.accountsConfig()
	result := &Result{EntryCount: len(entries)}
	var entryErrs []error

	for i, entry := range entries {
		candidates := accounts.Extract(entry, accountsCfg)

		cleanedJSON, err := p.extractEntryCached(ctx, entry, candidates)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("extract.Pipeline: entry %d/%d extraction failed: %v", i+1, len(entries), err)
			if p.cfg.FallbackEnabled {
				tl := validator.BuildFallback(entry, userID, candidates)
				result.Tradelines = append(result.Tradelines, *tl)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("entry %d: extraction failed, fallback tradeline built: %v", i+1, err))
				continue
			}
			entryErrs = append(entryErrs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}

		tl, warnings, err := validator.SanitizeAndValidate(cleanedJSON, userID, entry)
		if err != nil {
			log.Printf("extract.Pipeline: entry %d/%d validation failed: %v", i+1, len(entries), err)
			if p.cfg.FallbackEnabled {
				tl = validator.BuildFallback(entry, userID, candidates)
				warnings = []string{fmt.Sprintf("validation failed, fallback tradeline built: %v", err)}
			} else {
				entryErrs = append(entryErrs, fmt.Errorf("entry %d: %w", i+1, err))
				continue
			}
		}

		result.Tradelines = append(result.Tradelines, *tl)
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d: %s", i+1, w))
		}
	}

	return result, errors.Join(entryErrs...)
}

func (p *Pipeline) extractEntryCached(ctx context.Context, entry string, candidates []accounts.Candidate) (string, error) {
	if p.cache == nil {
		res, err := p.extractor.ExtractEntry(ctx, entry, candidates)
		if err != nil {
			return "", err
		}
		return res.CleanedJSON, nil
	}

	key := entryCacheKey(entry)
	if cached, ok := p.cache.Get(key); ok {
		return cached.(string), nil
	}

	res, err := p.extractor.ExtractEntry(ctx, entry, candidates)
	if err != nil {
		return "", err
	}
	p.cache.Set(key, res.CleanedJSON, gocache.DefaultExpiration)
	return res.CleanedJSON, nil
}

func entryCacheKey(entry string) string {
	sum := sha256.Sum256([]byte(entry))
	return hex.EncodeToString(sum[:])
}
