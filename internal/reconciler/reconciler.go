// Package reconciler reconciles two versions of a file set into a
// correspondence table: which paths stayed, appeared, vanished, or merely
// changed name or place. Matching is sequential and deterministic; rates
// for the resulting pairs come from a PairRater collaborator and feed the
// retraction pass that undoes rename/move matches content evidence refutes.
package reconciler

import (
	"context"
	"sort"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/aleister1102/pkgdelta/internal/similarity"
	"github.com/rs/zerolog"
)

// PairRater computes change rates for candidate pairs. Implementations
// fill Rate/HasRate (or Status/SkipReason on failure) in place, keyed by
// the pair itself, so worker-completion order never leaks into results.
type PairRater interface {
	RatePairs(ctx context.Context, pairs []*models.PairResult)
}

// FileSetReconciler produces the authoritative per-file status table for a
// package pair.
type FileSetReconciler struct {
	config  config.ReconcilerConfig
	moves   *MoveDetector
	renames *RenameDetector
	rater   PairRater
	logger  zerolog.Logger
}

// FileSetReconcilerBuilder provides a fluent interface for creating a FileSetReconciler
type FileSetReconcilerBuilder struct {
	config config.ReconcilerConfig
	rater  PairRater
	logger zerolog.Logger
}

// NewFileSetReconcilerBuilder creates a new builder
func NewFileSetReconcilerBuilder(logger zerolog.Logger) *FileSetReconcilerBuilder {
	return &FileSetReconcilerBuilder{
		config: config.NewDefaultReconcilerConfig(),
		logger: logger.With().Str("component", "FileSetReconciler").Logger(),
	}
}

// WithConfig sets the reconciler configuration
func (b *FileSetReconcilerBuilder) WithConfig(cfg config.ReconcilerConfig) *FileSetReconcilerBuilder {
	b.config = cfg
	return b
}

// WithRater sets the pair rater collaborator
func (b *FileSetReconcilerBuilder) WithRater(rater PairRater) *FileSetReconcilerBuilder {
	b.rater = rater
	return b
}

// Build creates a new FileSetReconciler instance
func (b *FileSetReconcilerBuilder) Build() (*FileSetReconciler, error) {
	if b.rater == nil {
		return nil, common.NewValidationError("rater", b.rater, "pair rater cannot be nil")
	}

	scorer := similarity.NewRenameScorer(b.config.RenameBaseRatio, config.DefaultShortNameLength)

	return &FileSetReconciler{
		config:  b.config,
		moves:   NewMoveDetector(b.config.MovePrefixDepth),
		renames: NewRenameDetector(scorer, b.config.MatchFactor, b.config.SingletonMatchFactor),
		rater:   b.rater,
		logger:  b.logger,
	}, nil
}

// partition is the exact-path membership split of the two file tables.
type partition struct {
	stable  []string
	added   []string
	removed []string
}

// Reconcile compares the two file tables and returns the per-file result
// table, with rates attached and rename/move retraction applied.
func (fsr *FileSetReconciler) Reconcile(ctx context.Context, oldFiles, newFiles models.FileTable) (*models.ReconcileResult, error) {
	if oldFiles == nil || newFiles == nil {
		return nil, common.NewValidationError("file_tables", nil, "old and new file tables cannot be nil")
	}

	part := fsr.partition(oldFiles, newFiles)

	claimed := newClaimedSet()
	correspondences := fsr.moves.Detect(part.removed, part.added, claimed)
	correspondences = append(correspondences,
		fsr.renames.Detect(part.removed, part.added, oldFiles, newFiles, claimed)...)

	result := fsr.buildProvisional(part, correspondences, claimed, oldFiles, newFiles)

	fsr.ratePairs(ctx, result)
	fsr.finalize(result)

	fsr.logger.Debug().
		Int("stable", len(part.stable)).
		Int("added", len(part.added)).
		Int("removed", len(part.removed)).
		Int("correspondences", len(result.Correspondences)).
		Msg("Reconciliation finished")

	return result, nil
}

// partition splits paths by exact logical-path membership. A path present
// on both sides with different formats never counts as stable: it is
// reported as removed plus added.
func (fsr *FileSetReconciler) partition(oldFiles, newFiles models.FileTable) partition {
	var part partition

	oldPaths := oldFiles.Paths()
	sort.Strings(oldPaths)
	for _, p := range oldPaths {
		newEntry, inNew := newFiles[p]
		if !inNew {
			part.removed = append(part.removed, p)
			continue
		}
		if oldFiles[p].Format != newEntry.Format {
			part.removed = append(part.removed, p)
			part.added = append(part.added, p)
			continue
		}
		part.stable = append(part.stable, p)
	}

	newPaths := newFiles.Paths()
	sort.Strings(newPaths)
	for _, p := range newPaths {
		if _, inOld := oldFiles[p]; !inOld {
			part.added = append(part.added, p)
		}
	}
	sort.Strings(part.added)

	return part
}

// buildProvisional assembles the result table before rating: stable pairs,
// correspondence pairs, and the leftover added/removed entries. Counterpart
// paths of a correspondence are folded into its single pair entry, never
// listed separately.
func (fsr *FileSetReconciler) buildProvisional(part partition, correspondences []models.Correspondence, claimed *claimedSet, oldFiles, newFiles models.FileTable) *models.ReconcileResult {
	result := models.NewReconcileResult()
	result.Correspondences = correspondences

	for _, p := range part.stable {
		result.Results[p] = &models.PairResult{
			OldEntry: oldFiles[p],
			NewEntry: newFiles[p],
			Status:   models.StatusChanged, // provisional until rated
		}
	}

	for _, corr := range correspondences {
		status := models.StatusRenamed
		if corr.Kind == models.CorrespondenceMove {
			status = models.StatusMoved
		}
		result.Results[corr.NewPath] = &models.PairResult{
			OldEntry: oldFiles[corr.OldPath],
			NewEntry: newFiles[corr.NewPath],
			Status:   status,
		}
	}

	for _, p := range part.removed {
		if claimed.isOldClaimed(p) {
			continue
		}
		// the split path's new side may already sit under this key as a
		// correspondence pair; key the removed side separately
		key := p
		if _, taken := result.Results[key]; taken {
			key = p + "#removed"
		}
		result.Results[key] = &models.PairResult{
			OldEntry: oldFiles[p],
			Status:   models.StatusRemoved,
		}
	}
	for _, p := range part.added {
		if claimed.isNewClaimed(p) {
			continue
		}
		// the format-mismatch split lists one path both ways; key the
		// added side separately so neither report is lost
		key := p
		if _, taken := result.Results[key]; taken {
			key = p + "#added"
		}
		result.Results[key] = &models.PairResult{
			NewEntry: newFiles[p],
			Status:   models.StatusAdded,
		}
	}

	return result
}

// ratePairs dispatches every pair that has both sides to the rater, in
// deterministic path order.
func (fsr *FileSetReconciler) ratePairs(ctx context.Context, result *models.ReconcileResult) {
	keys := make([]string, 0, len(result.Results))
	for key := range result.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []*models.PairResult
	for _, key := range keys {
		pair := result.Results[key]
		if pair.OldEntry != nil && pair.NewEntry != nil {
			pairs = append(pairs, pair)
		}
	}

	fsr.rater.RatePairs(ctx, pairs)
}

// finalize settles statuses from the computed rates and retracts any
// rename/move whose rate reaches its ceiling: name or position similarity
// alone is not evidence of identity once content diverges that far.
func (fsr *FileSetReconciler) finalize(result *models.ReconcileResult) {
	var kept []models.Correspondence

	for _, corr := range result.Correspondences {
		pair := result.Results[corr.NewPath]
		if pair == nil {
			continue
		}
		if fsr.shouldRetract(corr, pair) {
			result.Results[corr.NewPath] = &models.PairResult{
				NewEntry: pair.NewEntry,
				Status:   models.StatusAdded,
			}
			// a format-mismatch split may already report the old path's new
			// side under its plain key; never overwrite it
			removedKey := corr.OldPath
			if _, taken := result.Results[removedKey]; taken {
				removedKey = corr.OldPath + "#removed"
			}
			result.Results[removedKey] = &models.PairResult{
				OldEntry: pair.OldEntry,
				Status:   models.StatusRemoved,
			}
			continue
		}
		kept = append(kept, corr)
	}
	result.Correspondences = kept

	for _, pair := range result.Results {
		if pair.Status != models.StatusChanged {
			continue
		}
		// stable pairs settle on their rate; a pair the rater skipped
		// keeps its skipped status from the rater
		if pair.HasRate && pair.Rate == 0 {
			pair.Status = models.StatusUnchanged
		}
	}
}

// shouldRetract applies the content-match ceilings: at or above the
// ceiling, the files are too different to plausibly be the same file.
func (fsr *FileSetReconciler) shouldRetract(corr models.Correspondence, pair *models.PairResult) bool {
	if !pair.HasRate {
		return false
	}
	ceiling := fsr.config.RenameRateCeiling
	if corr.Kind == models.CorrespondenceMove {
		ceiling = fsr.config.MoveRateCeiling
	}
	return pair.Rate >= ceiling
}
