package comparator

import (
	"math"
	"sort"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// SummaryBuilder folds the per-file and per-dependency results into the
// aggregate report summary.
type SummaryBuilder struct {
	logger zerolog.Logger
}

// NewSummaryBuilder creates a new SummaryBuilder
func NewSummaryBuilder(logger zerolog.Logger) *SummaryBuilder {
	return &SummaryBuilder{
		logger: logger.With().Str("component", "SummaryBuilder").Logger(),
	}
}

// Build computes the aggregate summary. Percent affected is
// 100 * sum(delta) / sum(weight) over files and dependency records, where a
// file weighs its byte size and a dependency record weighs one unit.
func (sb *SummaryBuilder) Build(result *models.ReconcileResult, depResults []models.DependencyKindResult, oldVersion, newVersion string) *models.ComparisonSummary {
	summary := &models.ComparisonSummary{
		OldVersion: oldVersion,
		NewVersion: newVersion,
	}

	var totalWeight, totalDelta float64

	formats := sb.buildFormatSummaries(result, summary)
	for _, fs := range formats {
		totalWeight += float64(fs.SizeBytes)
		totalDelta += float64(fs.SizeDelta)
	}
	summary.Formats = formats

	for _, kindResult := range depResults {
		kindSummary := models.DependencyKindSummary{Kind: kindResult.Kind}
		for _, diff := range kindResult.Diffs {
			kindSummary.Total++
			totalWeight++
			switch diff.Status {
			case models.DepAdded:
				kindSummary.Added++
				totalDelta++
			case models.DepRemoved:
				kindSummary.Removed++
				totalDelta++
			case models.DepChanged:
				kindSummary.Changed++
				totalDelta++
			default:
				kindSummary.Unchanged++
			}
		}
		summary.Dependencies = append(summary.Dependencies, kindSummary)
	}

	summary.PercentAffected = clampPercent(totalWeight, totalDelta)
	return summary
}

// buildFormatSummaries tallies per-format counters in sorted tag order and
// fills the summary's whole-file counters on the way.
func (sb *SummaryBuilder) buildFormatSummaries(result *models.ReconcileResult, summary *models.ComparisonSummary) []models.FormatSummary {
	byFormat := make(map[models.FormatTag]*models.FormatSummary)

	keys := make([]string, 0, len(result.Results))
	for key := range result.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pair := result.Results[key]
		format := pairFormat(pair)

		fs, ok := byFormat[format]
		if !ok {
			fs = &models.FormatSummary{Format: format}
			byFormat[format] = fs
		}

		fs.Total++
		fs.SizeBytes += pairWeight(pair)
		fs.SizeDelta += pairDelta(pair)
		summary.TotalFiles++

		switch pair.Status {
		case models.StatusAdded:
			fs.Added++
			summary.AddedFiles++
		case models.StatusRemoved:
			fs.Removed++
			summary.RemovedFiles++
		case models.StatusChanged, models.StatusRenamed, models.StatusMoved:
			fs.Changed++
			summary.ChangedFiles++
		case models.StatusSkipped:
			fs.Skipped++
			summary.SkippedFiles++
		}
	}

	tags := make([]string, 0, len(byFormat))
	for tag := range byFormat {
		tags = append(tags, string(tag))
	}
	sort.Strings(tags)

	formats := make([]models.FormatSummary, 0, len(tags))
	for _, tag := range tags {
		formats = append(formats, *byFormat[models.FormatTag(tag)])
	}
	return formats
}

// pairFormat is the reported format of a pair: the new side wins when both
// exist.
func pairFormat(pair *models.PairResult) models.FormatTag {
	if pair.NewEntry != nil {
		return pair.NewEntry.Format
	}
	if pair.OldEntry != nil {
		return pair.OldEntry.Format
	}
	return models.FormatOther
}

// pairWeight is the byte weight a pair contributes to the affected-percent
// denominator: the old size when the file existed before, the new size for
// pure additions.
func pairWeight(pair *models.PairResult) int64 {
	if pair.OldEntry != nil {
		return pair.OldEntry.SizeBytes
	}
	return pair.NewEntry.SizeBytes
}

// pairDelta is the affected-byte estimate for one pair: full size for
// added/removed files, rate-weighted old size for content changes, zero for
// unchanged and skipped pairs.
func pairDelta(pair *models.PairResult) int64 {
	switch pair.Status {
	case models.StatusAdded:
		return pair.NewEntry.SizeBytes
	case models.StatusRemoved:
		return pair.OldEntry.SizeBytes
	case models.StatusChanged, models.StatusRenamed, models.StatusMoved:
		if pair.HasRate && pair.OldEntry != nil {
			return int64(math.Round(pair.Rate * float64(pair.OldEntry.SizeBytes)))
		}
		return 0
	default:
		return 0
	}
}

// clampPercent computes 100*delta/weight clamped to [0,100]; an empty input
// is 0% affected.
func clampPercent(weight, delta float64) float64 {
	if weight <= 0 {
		return 0
	}
	percent := 100 * delta / weight
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
