package differ

import (
	"context"
	"errors"
	"testing"

	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdvisor returns canned answers for pool sizing and dispatch.
type fakeAdvisor struct {
	workers     int
	dispatchErr error
}

func (fa *fakeAdvisor) RecommendWorkers(requested int) int {
	if fa.workers > 0 {
		return fa.workers
	}
	return requested
}

func (fa *fakeAdvisor) AllowDispatch() error {
	return fa.dispatchErr
}

func newTestRater(t *testing.T, cfg config.DifferConfig, collaborator DiffCollaborator, advisor ResourceAdvisor) *PoolRater {
	t.Helper()
	builder := NewPoolRaterBuilder(zerolog.Nop()).
		WithConfig(cfg).
		WithComputer(newTestComputer(collaborator))
	if advisor != nil {
		builder = builder.WithAdvisor(advisor)
	}
	rater, err := builder.Build()
	require.NoError(t, err)
	return rater
}

func TestPoolRaterRequiresComputer(t *testing.T) {
	_, err := NewPoolRaterBuilder(zerolog.Nop()).Build()
	assert.Error(t, err)
}

func TestPoolRaterRatesPairs(t *testing.T) {
	dir := t.TempDir()
	changedOld := writeEntry(t, dir, "changed-old.txt", "aaaa\nbbbb\n")
	changedNew := writeEntry(t, dir, "changed-new.txt", "aaaa\n")
	stableOld := writeEntry(t, dir, "stable-old.txt", "same\n")
	stableNew := writeEntry(t, dir, "stable-new.txt", "same\n")

	changed := &models.PairResult{OldEntry: changedOld, NewEntry: changedNew, Status: models.StatusChanged}
	stable := &models.PairResult{OldEntry: stableOld, NewEntry: stableNew, Status: models.StatusChanged}

	rater := newTestRater(t, config.NewDefaultDifferConfig(), NewPatchBuilder(config.NewDefaultDifferConfig()), nil)
	rater.RatePairs(context.Background(), []*models.PairResult{changed, stable})

	require.True(t, changed.HasRate)
	assert.InDelta(t, 0.4, changed.Rate, 1e-9)
	assert.Equal(t, models.StatusChanged, changed.Status)

	require.True(t, stable.HasRate)
	assert.Equal(t, 0.0, stable.Rate)

	artifacts := rater.Artifacts()
	assert.Contains(t, artifacts, changed.Key())
	assert.NotContains(t, artifacts, stable.Key(), "short-circuited pairs emit no artifact")
}

func TestPoolRaterSkipsOversizePairs(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "small\n")
	newEntry := writeEntry(t, dir, "new.txt", "small but edited\n")
	oldEntry.SizeBytes = 500 * 1024 * 1024

	fc := &fakeCollaborator{}
	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	rater := newTestRater(t, config.NewDefaultDifferConfig(), fc, nil)
	rater.RatePairs(context.Background(), []*models.PairResult{pair})

	assert.Equal(t, models.StatusSkipped, pair.Status)
	assert.Equal(t, "file exceeds diff size limit", pair.SkipReason)
	assert.False(t, pair.HasRate)
	assert.Equal(t, int32(0), fc.calls, "oversize pairs must be rejected before dispatch")
}

func TestPoolRaterSkipsOnDiffFailure(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	fc := &fakeCollaborator{err: errors.New("broken pipe")}
	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	rater := newTestRater(t, config.NewDefaultDifferConfig(), fc, nil)
	rater.RatePairs(context.Background(), []*models.PairResult{pair})

	assert.Equal(t, models.StatusSkipped, pair.Status)
	assert.Contains(t, pair.SkipReason, "diff failed")
	assert.False(t, pair.HasRate)
}

func TestPoolRaterSkipsOnTimeout(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	fc := &fakeCollaborator{err: context.DeadlineExceeded}
	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	rater := newTestRater(t, config.NewDefaultDifferConfig(), fc, nil)
	rater.RatePairs(context.Background(), []*models.PairResult{pair})

	assert.Equal(t, models.StatusSkipped, pair.Status)
	assert.Equal(t, "diff timed out", pair.SkipReason)
	assert.False(t, pair.HasRate)
}

func TestPoolRaterArtifactsReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "aaaa\nbbbb\n")
	newEntry := writeEntry(t, dir, "new.txt", "aaaa\n")

	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	rater := newTestRater(t, config.NewDefaultDifferConfig(), NewPatchBuilder(config.NewDefaultDifferConfig()), nil)
	rater.RatePairs(context.Background(), []*models.PairResult{pair})

	first := rater.Artifacts()
	require.Contains(t, first, pair.Key())
	delete(first, pair.Key())

	assert.Contains(t, rater.Artifacts(), pair.Key(), "mutating the returned map must not touch the rater's state")
}

func TestPoolRaterHonorsAdvisorVeto(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	fc := &fakeCollaborator{}
	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	advisor := &fakeAdvisor{workers: 1, dispatchErr: errors.New("memory limit reached")}
	rater := newTestRater(t, config.NewDefaultDifferConfig(), fc, advisor)
	rater.RatePairs(context.Background(), []*models.PairResult{pair})

	assert.Equal(t, models.StatusSkipped, pair.Status)
	assert.Contains(t, pair.SkipReason, "resource limit")
	assert.Equal(t, int32(0), fc.calls)
}

func TestPoolRaterCanceledContext(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	pair := &models.PairResult{OldEntry: oldEntry, NewEntry: newEntry, Status: models.StatusChanged}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rater := newTestRater(t, config.NewDefaultDifferConfig(), &fakeCollaborator{}, nil)
	rater.RatePairs(ctx, []*models.PairResult{pair})

	assert.Equal(t, models.StatusSkipped, pair.Status)
	assert.Equal(t, "run canceled", pair.SkipReason)
}
