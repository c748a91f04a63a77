package differ

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// ResourceAdvisor bounds pool sizing and dispatch under host pressure. The
// rslimiter package provides the production implementation.
type ResourceAdvisor interface {
	// RecommendWorkers may shrink the requested worker count.
	RecommendWorkers(requested int) int
	// AllowDispatch returns an error when no further work should start.
	AllowDispatch() error
}

// PoolRater rates pairs on a bounded worker pool. It implements the
// reconciler's PairRater contract: each pair is written by exactly one
// worker, and skip decisions are taken before dispatch where possible.
type PoolRater struct {
	computer *RateComputer
	config   config.DifferConfig
	advisor  ResourceAdvisor
	logger   zerolog.Logger

	mu        sync.Mutex
	artifacts map[string]*models.PatchArtifact
}

// PoolRaterBuilder provides a fluent interface for creating a PoolRater
type PoolRaterBuilder struct {
	computer *RateComputer
	config   config.DifferConfig
	advisor  ResourceAdvisor
	logger   zerolog.Logger
}

// NewPoolRaterBuilder creates a new builder
func NewPoolRaterBuilder(logger zerolog.Logger) *PoolRaterBuilder {
	return &PoolRaterBuilder{
		config: config.NewDefaultDifferConfig(),
		logger: logger.With().Str("component", "PoolRater").Logger(),
	}
}

// WithConfig sets the differ configuration
func (b *PoolRaterBuilder) WithConfig(cfg config.DifferConfig) *PoolRaterBuilder {
	b.config = cfg
	return b
}

// WithComputer sets the rate computer
func (b *PoolRaterBuilder) WithComputer(computer *RateComputer) *PoolRaterBuilder {
	b.computer = computer
	return b
}

// WithAdvisor sets an optional resource advisor
func (b *PoolRaterBuilder) WithAdvisor(advisor ResourceAdvisor) *PoolRaterBuilder {
	b.advisor = advisor
	return b
}

// Build creates a new PoolRater instance
func (b *PoolRaterBuilder) Build() (*PoolRater, error) {
	if b.computer == nil {
		return nil, common.NewValidationError("computer", b.computer, "rate computer cannot be nil")
	}
	return &PoolRater{
		computer: b.computer,
		config:   b.config,
		advisor:  b.advisor,
		logger:   b.logger,
	}, nil
}

// RatePairs rates all pairs on the worker pool. Oversize pairs and pairs
// vetoed by the resource advisor are marked skipped without entering the
// pool; everything else keeps its provisional status and gains Rate/HasRate,
// or turns skipped on diff failure or timeout.
func (pr *PoolRater) RatePairs(ctx context.Context, pairs []*models.PairResult) {
	pr.mu.Lock()
	pr.artifacts = make(map[string]*models.PatchArtifact)
	pr.mu.Unlock()

	workers := pr.workerCount()
	jobs := make(chan *models.PairResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				pr.ratePair(ctx, pair)
			}
		}()
	}

	maxBytes := int64(pr.config.MaxDiffFileSizeMB) * 1024 * 1024
	for _, pair := range pairs {
		if ctx.Err() != nil {
			markSkipped(pair, "run canceled")
			continue
		}
		if pair.OldEntry.SizeBytes > maxBytes || pair.NewEntry.SizeBytes > maxBytes {
			markSkipped(pair, "file exceeds diff size limit")
			continue
		}
		if pr.advisor != nil {
			if err := pr.advisor.AllowDispatch(); err != nil {
				markSkipped(pair, "resource limit: "+err.Error())
				continue
			}
		}
		jobs <- pair
	}
	close(jobs)
	wg.Wait()
}

// Artifacts returns the patch artifacts produced by the last RatePairs call,
// keyed by result path. The map is a copy; callers may mutate it freely.
func (pr *PoolRater) Artifacts() map[string]*models.PatchArtifact {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	artifacts := make(map[string]*models.PatchArtifact, len(pr.artifacts))
	for key, artifact := range pr.artifacts {
		artifacts[key] = artifact
	}
	return artifacts
}

// workerCount applies configuration and advisor limits.
func (pr *PoolRater) workerCount() int {
	workers := pr.config.Workers
	if pr.advisor != nil {
		workers = pr.advisor.RecommendWorkers(workers)
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ratePair rates one pair under the per-invocation timeout.
func (pr *PoolRater) ratePair(ctx context.Context, pair *models.PairResult) {
	rateCtx := ctx
	if pr.config.DiffTimeoutSecs > 0 {
		var cancel context.CancelFunc
		rateCtx, cancel = context.WithTimeout(ctx, time.Duration(pr.config.DiffTimeoutSecs)*time.Second)
		defer cancel()
	}

	rate, artifact, err := pr.computer.Rate(rateCtx, pair.OldEntry, pair.NewEntry)
	if err != nil {
		reason := "diff failed: " + err.Error()
		if errors.Is(err, common.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			reason = "diff timed out"
		}
		pr.logger.Warn().
			Str("path", pair.Key()).
			Err(err).
			Msg("Rate computation skipped")
		markSkipped(pair, reason)
		return
	}

	pair.Rate = rate
	pair.HasRate = true

	if artifact != nil {
		pr.mu.Lock()
		pr.artifacts[pair.Key()] = artifact
		pr.mu.Unlock()
	}
}

// markSkipped downgrades a pair to skipped with no rate attached.
func markSkipped(pair *models.PairResult, reason string) {
	pair.Status = models.StatusSkipped
	pair.SkipReason = reason
	pair.Rate = 0
	pair.HasRate = false
}
