package comparator

import (
	"testing"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(oldEntry, newEntry *models.FileEntry, status models.FileStatus, rate float64, hasRate bool) *models.PairResult {
	return &models.PairResult{
		OldEntry: oldEntry,
		NewEntry: newEntry,
		Status:   status,
		Rate:     rate,
		HasRate:  hasRate,
	}
}

func fileEntry(path string, size int64, format models.FormatTag) *models.FileEntry {
	return &models.FileEntry{LogicalPath: path, SizeBytes: size, Format: format}
}

func TestSummaryBuilderCounters(t *testing.T) {
	result := models.NewReconcileResult()
	result.Results["/keep.txt"] = pair(
		fileEntry("/keep.txt", 100, models.FormatText),
		fileEntry("/keep.txt", 100, models.FormatText),
		models.StatusUnchanged, 0, true)
	result.Results["/edit.txt"] = pair(
		fileEntry("/edit.txt", 200, models.FormatText),
		fileEntry("/edit.txt", 210, models.FormatText),
		models.StatusChanged, 0.5, true)
	result.Results["/fresh.txt"] = pair(
		nil,
		fileEntry("/fresh.txt", 50, models.FormatText),
		models.StatusAdded, 0, false)
	result.Results["/gone.txt"] = pair(
		fileEntry("/gone.txt", 50, models.FormatText),
		nil,
		models.StatusRemoved, 0, false)

	depResults := []models.DependencyKindResult{
		{
			Kind: "requires",
			Diffs: []models.DependencyDiff{
				{Name: "libfoo", Status: models.DepChanged},
				{Name: "libbar", Status: models.DepUnchanged},
			},
		},
	}

	summary := NewSummaryBuilder(zerolog.Nop()).Build(result, depResults, "1.0", "2.0")

	assert.Equal(t, "1.0", summary.OldVersion)
	assert.Equal(t, "2.0", summary.NewVersion)
	assert.Equal(t, 4, summary.TotalFiles)
	assert.Equal(t, 1, summary.AddedFiles)
	assert.Equal(t, 1, summary.RemovedFiles)
	assert.Equal(t, 1, summary.ChangedFiles)
	assert.Equal(t, 0, summary.SkippedFiles)

	require.Len(t, summary.Formats, 1)
	text := summary.Formats[0]
	assert.Equal(t, models.FormatText, text.Format)
	assert.Equal(t, 4, text.Total)
	assert.Equal(t, int64(400), text.SizeBytes)
	// 0 + round(0.5*200) + 50 + 50
	assert.Equal(t, int64(200), text.SizeDelta)

	require.Len(t, summary.Dependencies, 1)
	deps := summary.Dependencies[0]
	assert.Equal(t, 2, deps.Total)
	assert.Equal(t, 1, deps.Changed)
	assert.Equal(t, 1, deps.Unchanged)

	// (200 file delta + 1 dep delta) / (400 file bytes + 2 dep records)
	assert.InDelta(t, 100*201.0/402.0, summary.PercentAffected, 1e-9)
}

func TestSummaryBuilderGroupsByFormat(t *testing.T) {
	result := models.NewReconcileResult()
	result.Results["/lib/a.so"] = pair(
		fileEntry("/lib/a.so", 10, models.FormatSharedObject),
		fileEntry("/lib/a.so", 10, models.FormatSharedObject),
		models.StatusChanged, 1, true)
	result.Results["/lib/b.so"] = pair(
		nil,
		fileEntry("/lib/b.so", 30, models.FormatSharedObject),
		models.StatusAdded, 0, false)
	result.Results["/doc/c.txt"] = pair(
		fileEntry("/doc/c.txt", 5, models.FormatText),
		nil,
		models.StatusRemoved, 0, false)

	summary := NewSummaryBuilder(zerolog.Nop()).Build(result, nil, "", "")

	require.Len(t, summary.Formats, 2)
	// sorted by tag: shared_object < text
	assert.Equal(t, models.FormatSharedObject, summary.Formats[0].Format)
	assert.Equal(t, 2, summary.Formats[0].Total)
	assert.Equal(t, models.FormatText, summary.Formats[1].Format)
	assert.Equal(t, 1, summary.Formats[1].Total)
}

func TestSummaryBuilderSkippedPairsCarryNoDelta(t *testing.T) {
	result := models.NewReconcileResult()
	skipped := pair(
		fileEntry("/big.bin", 1000, models.FormatData),
		fileEntry("/big.bin", 1000, models.FormatData),
		models.StatusSkipped, 0, false)
	skipped.SkipReason = "file exceeds diff size limit"
	result.Results["/big.bin"] = skipped

	summary := NewSummaryBuilder(zerolog.Nop()).Build(result, nil, "", "")

	assert.Equal(t, 1, summary.SkippedFiles)
	require.Len(t, summary.Formats, 1)
	assert.Equal(t, 1, summary.Formats[0].Skipped)
	assert.Equal(t, int64(0), summary.Formats[0].SizeDelta)
	assert.Equal(t, 0.0, summary.PercentAffected)
}

func TestSummaryBuilderPercentClamped(t *testing.T) {
	result := models.NewReconcileResult()
	result.Results["/a"] = pair(fileEntry("/a", 10, models.FormatText), nil, models.StatusRemoved, 0, false)
	result.Results["/b"] = pair(nil, fileEntry("/b", 100, models.FormatText), models.StatusAdded, 0, false)

	summary := NewSummaryBuilder(zerolog.Nop()).Build(result, nil, "", "")
	assert.Equal(t, 100.0, summary.PercentAffected)
}

func TestSummaryBuilderEmptyRun(t *testing.T) {
	summary := NewSummaryBuilder(zerolog.Nop()).Build(models.NewReconcileResult(), nil, "", "")

	assert.Equal(t, 0, summary.TotalFiles)
	assert.Equal(t, 0.0, summary.PercentAffected)
	assert.Empty(t, summary.Formats)
}
