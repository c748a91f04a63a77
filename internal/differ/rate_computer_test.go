package differ

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollaborator counts invocations and optionally fails.
type fakeCollaborator struct {
	calls int32
	err   error
}

func (fc *fakeCollaborator) BuildPatch(_ context.Context, _, _ []byte, oldPath, newPath string) (*models.PatchArtifact, error) {
	atomic.AddInt32(&fc.calls, 1)
	if fc.err != nil {
		return nil, fc.err
	}
	return &models.PatchArtifact{OldPath: oldPath, NewPath: newPath}, nil
}

func writeEntry(t *testing.T, dir, name, content string) *models.FileEntry {
	t.Helper()
	physical := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(physical, []byte(content), 0644))
	return &models.FileEntry{
		LogicalPath:  "/" + name,
		PhysicalPath: physical,
		SizeBytes:    int64(len(content)),
		Format:       models.FormatText,
	}
}

func newTestComputer(collaborator DiffCollaborator) *RateComputer {
	logger := zerolog.Nop()
	return NewRateComputer(collaborator, common.NewFileManager(logger), logger)
}

func TestRateIdenticalContentSkipsCollaborator(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "same content\n")
	newEntry := writeEntry(t, dir, "new.txt", "same content\n")

	fc := &fakeCollaborator{}
	rate, artifact, err := newTestComputer(fc).Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
	assert.Nil(t, artifact)
	assert.Equal(t, int32(0), fc.calls, "identical content must never reach the diff collaborator")
}

func TestRateShrinkingFile(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "aaaa\nbbbb\n")
	newEntry := writeEntry(t, dir, "new.txt", "aaaa\n")

	computer := newTestComputer(NewPatchBuilder(config.NewDefaultDifferConfig()))
	rate, artifact, err := computer.Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	require.NotNil(t, artifact)
	// four removed bytes over a ten-byte old side; shrinkage adds nothing
	assert.InDelta(t, 0.4, rate, 1e-9)
}

func TestRateGrowingFile(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "aaaa\nbbbb\n")
	newEntry := writeEntry(t, dir, "new.txt", "aaaa\nbbbb\ncc\n")

	computer := newTestComputer(NewPatchBuilder(config.NewDefaultDifferConfig()))
	rate, _, err := computer.Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	// nothing removed, three bytes of growth over a ten-byte old side
	assert.InDelta(t, 0.3, rate, 1e-9)
}

func TestRateEmptyOldFile(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "")
	newEntry := writeEntry(t, dir, "new.txt", "anything\n")

	computer := newTestComputer(NewPatchBuilder(config.NewDefaultDifferConfig()))
	rate, _, err := computer.Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRateSaturatesAtOne(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "ab\n")
	newEntry := writeEntry(t, dir, "new.txt", "completely different and much longer\n")

	computer := newTestComputer(NewPatchBuilder(config.NewDefaultDifferConfig()))
	rate, _, err := computer.Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRateDirectoryPair(t *testing.T) {
	oldEntry := &models.FileEntry{LogicalPath: "/usr/share", IsDir: true}
	newEntry := &models.FileEntry{LogicalPath: "/usr/share", IsDir: true}

	fc := &fakeCollaborator{}
	rate, artifact, err := newTestComputer(fc).Rate(context.Background(), oldEntry, newEntry)

	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
	assert.Nil(t, artifact)
	assert.Equal(t, int32(0), fc.calls)
}

func TestRateCollaboratorError(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	fc := &fakeCollaborator{err: errors.New("diff engine exploded")}
	_, _, err := newTestComputer(fc).Rate(context.Background(), oldEntry, newEntry)

	assert.Error(t, err)
}

func TestRateTimeoutMapsToSentinel(t *testing.T) {
	dir := t.TempDir()
	oldEntry := writeEntry(t, dir, "old.txt", "one\n")
	newEntry := writeEntry(t, dir, "new.txt", "two\n")

	fc := &fakeCollaborator{err: context.DeadlineExceeded}
	_, _, err := newTestComputer(fc).Rate(context.Background(), oldEntry, newEntry)

	assert.ErrorIs(t, err, common.ErrTimeout)
}

func TestRateUnreadableOldSide(t *testing.T) {
	dir := t.TempDir()
	newEntry := writeEntry(t, dir, "new.txt", "content\n")
	oldEntry := &models.FileEntry{
		LogicalPath:  "/old.txt",
		PhysicalPath: filepath.Join(dir, "missing.txt"),
		Format:       models.FormatText,
	}

	_, _, err := newTestComputer(&fakeCollaborator{}).Rate(context.Background(), oldEntry, newEntry)
	assert.Error(t, err)
}
