package differ

import (
	"bytes"
	"context"
	"errors"

	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// RateComputer turns one candidate file pair into a normalized change rate
// plus the patch artifact behind it.
type RateComputer struct {
	collaborator DiffCollaborator
	fileManager  *common.FileManager
	logger       zerolog.Logger
}

// NewRateComputer creates a rate computer backed by the given collaborator.
func NewRateComputer(collaborator DiffCollaborator, fileManager *common.FileManager, logger zerolog.Logger) *RateComputer {
	return &RateComputer{
		collaborator: collaborator,
		fileManager:  fileManager,
		logger:       logger.With().Str("component", "RateComputer").Logger(),
	}
}

// Rate computes the change rate for one pair:
//
//	min(1, (removedOrChangedBytes + max(0, sizeNew-sizeOld)) / sizeOld)
//
// Byte-identical content short-circuits to 0 without invoking the diff
// collaborator. An empty old file is defined as rate 1. The artifact is nil
// whenever the collaborator was not consulted.
func (rc *RateComputer) Rate(ctx context.Context, oldEntry, newEntry *models.FileEntry) (float64, *models.PatchArtifact, error) {
	if oldEntry.IsDir || newEntry.IsDir {
		if oldEntry.IsDir && newEntry.IsDir {
			return 0, nil, nil
		}
		return 1, nil, nil
	}

	oldContent, err := rc.fileManager.ReadFile(oldEntry.PhysicalPath, common.FileReadOptions{})
	if err != nil {
		return 0, nil, common.WrapError(err, "failed to read old side for rating")
	}
	newContent, err := rc.fileManager.ReadFile(newEntry.PhysicalPath, common.FileReadOptions{})
	if err != nil {
		return 0, nil, common.WrapError(err, "failed to read new side for rating")
	}

	sizeOld := int64(len(oldContent))
	sizeNew := int64(len(newContent))

	if sizeOld == sizeNew && bytes.Equal(oldContent, newContent) {
		return 0, nil, nil
	}

	artifact, err := rc.collaborator.BuildPatch(ctx, oldContent, newContent, oldEntry.LogicalPath, newEntry.LogicalPath)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, common.WrapError(common.ErrTimeout, "diff collaborator")
		}
		return 0, nil, common.WrapError(err, "diff collaborator failed")
	}

	if sizeOld == 0 {
		return 1, artifact, nil
	}

	growth := sizeNew - sizeOld
	if growth < 0 {
		growth = 0
	}
	rate := float64(artifact.RemovedOrChangedBytes()+growth) / float64(sizeOld)
	if rate > 1 {
		rate = 1
	}
	return rate, artifact, nil
}
