// Package comparator orchestrates one comparison run end to end: ingest
// both trees and descriptors, reconcile files and dependencies, and fold
// everything into the aggregate summary. It owns the per-run state (the
// classifier caches and the rating pool) so runs never share anything.
package comparator

import (
	"context"

	"github.com/aleister1102/pkgdelta/internal/classifier"
	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/differ"
	"github.com/aleister1102/pkgdelta/internal/ingest"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/aleister1102/pkgdelta/internal/reconciler"
	"github.com/aleister1102/pkgdelta/internal/rslimiter"
	"github.com/rs/zerolog"
)

// ComparisonInput names the four inputs of one run. Descriptor paths may be
// empty; the run then compares file sets only.
type ComparisonInput struct {
	OldTreePath       string
	NewTreePath       string
	OldDescriptorPath string
	NewDescriptorPath string
}

// ComparisonResult is everything one run produced.
type ComparisonResult struct {
	FileResult        *models.ReconcileResult
	DependencyResults []models.DependencyKindResult
	Summary           *models.ComparisonSummary
	// Artifacts holds the patch artifacts keyed by result path, for the
	// storage layer to persist.
	Artifacts map[string]*models.PatchArtifact

	OldDescriptor *ingest.PackageDescriptor
	NewDescriptor *ingest.PackageDescriptor
}

// Comparator runs complete comparisons.
type Comparator struct {
	config         *config.GlobalConfig
	logger         zerolog.Logger
	treeLoader     *ingest.TreeLoader
	descriptors    *ingest.DescriptorLoader
	fileReconciler *reconciler.FileSetReconciler
	depReconciler  *reconciler.DependencyReconciler
	rater          *differ.PoolRater
	limiter        *rslimiter.ResourceLimiter
	summaries      *SummaryBuilder
}

// ComparatorBuilder provides a fluent interface for creating a Comparator
type ComparatorBuilder struct {
	config *config.GlobalConfig
	logger zerolog.Logger
}

// NewComparatorBuilder creates a new builder
func NewComparatorBuilder(logger zerolog.Logger) *ComparatorBuilder {
	return &ComparatorBuilder{
		logger: logger.With().Str("component", "Comparator").Logger(),
	}
}

// WithConfig sets the global configuration
func (b *ComparatorBuilder) WithConfig(cfg *config.GlobalConfig) *ComparatorBuilder {
	b.config = cfg
	return b
}

// Build wires all run components from the configuration.
func (b *ComparatorBuilder) Build() (*Comparator, error) {
	if b.config == nil {
		return nil, common.NewValidationError("config", b.config, "global config cannot be nil")
	}

	fileManager := common.NewFileManager(b.logger)

	cls, err := classifier.NewClassifier(&b.config.ClassifierConfig, b.logger)
	if err != nil {
		return nil, err
	}

	collaborator := differ.NewPatchBuilder(b.config.DifferConfig)
	computer := differ.NewRateComputer(collaborator, fileManager, b.logger)
	limiter := rslimiter.NewResourceLimiter(b.config.ResourceLimiterConfig, b.logger)

	rater, err := differ.NewPoolRaterBuilder(b.logger).
		WithConfig(b.config.DifferConfig).
		WithComputer(computer).
		WithAdvisor(limiter).
		Build()
	if err != nil {
		return nil, err
	}

	fileReconciler, err := reconciler.NewFileSetReconcilerBuilder(b.logger).
		WithConfig(b.config.ReconcilerConfig).
		WithRater(rater).
		Build()
	if err != nil {
		return nil, err
	}

	return &Comparator{
		config:         b.config,
		logger:         b.logger,
		treeLoader:     ingest.NewTreeLoader(cls, fileManager, b.logger),
		descriptors:    ingest.NewDescriptorLoader(fileManager, b.logger),
		fileReconciler: fileReconciler,
		depReconciler:  reconciler.NewDependencyReconciler(b.logger),
		rater:          rater,
		limiter:        limiter,
		summaries:      NewSummaryBuilder(b.logger),
	}, nil
}

// NewComparator creates a Comparator using builder pattern
func NewComparator(cfg *config.GlobalConfig, logger zerolog.Logger) (*Comparator, error) {
	return NewComparatorBuilder(logger).WithConfig(cfg).Build()
}

// Compare runs one full comparison. Structural input failures abort with an
// error; per-file problems degrade to skipped results inside FileResult.
func (c *Comparator) Compare(ctx context.Context, input ComparisonInput) (*ComparisonResult, error) {
	oldDescriptor, err := c.descriptors.Load(input.OldDescriptorPath)
	if err != nil {
		return nil, err
	}
	newDescriptor, err := c.descriptors.Load(input.NewDescriptorPath)
	if err != nil {
		return nil, err
	}

	// each tree gets its own memo: verdicts are keyed by logical path and
	// the same path may classify differently across versions
	oldFiles, err := c.treeLoader.Load(ctx, input.OldTreePath, classifier.NewCache())
	if err != nil {
		return nil, err
	}
	newFiles, err := c.treeLoader.Load(ctx, input.NewTreePath, classifier.NewCache())
	if err != nil {
		return nil, err
	}

	fileResult, err := c.fileReconciler.Reconcile(ctx, oldFiles, newFiles)
	if err != nil {
		return nil, err
	}
	c.limiter.LogUsage()

	depResults := c.depReconciler.Reconcile(oldDescriptor.DependencySet(), newDescriptor.DependencySet())

	summary := c.summaries.Build(fileResult, depResults,
		describeVersion(oldDescriptor), describeVersion(newDescriptor))

	c.logger.Info().
		Int("total_files", summary.TotalFiles).
		Int("changed_files", summary.ChangedFiles).
		Float64("percent_affected", summary.PercentAffected).
		Msg("Comparison finished")

	return &ComparisonResult{
		FileResult:        fileResult,
		DependencyResults: depResults,
		Summary:           summary,
		Artifacts:         c.rater.Artifacts(),
		OldDescriptor:     oldDescriptor,
		NewDescriptor:     newDescriptor,
	}, nil
}

// describeVersion formats a descriptor's version string for the summary.
func describeVersion(descriptor *ingest.PackageDescriptor) string {
	if descriptor.Version == "" {
		return ""
	}
	if descriptor.Release != "" {
		return descriptor.Version + "-" + descriptor.Release
	}
	return descriptor.Version
}
