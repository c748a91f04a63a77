// Package ingest turns on-disk inputs into the engine's in-memory model: an
// extracted package tree becomes a classified file table, a package
// descriptor becomes a dependency set. Input failures here are structural
// and abort the run; nothing downstream sees a partial table.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/aleister1102/pkgdelta/internal/classifier"
	"github.com/aleister1102/pkgdelta/internal/common"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// TreeLoader walks one extracted package tree and builds its file table,
// classifying every entry on the way in.
type TreeLoader struct {
	classifier  *classifier.Classifier
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewTreeLoader creates a new TreeLoader
func NewTreeLoader(cls *classifier.Classifier, fileManager *common.FileManager, logger zerolog.Logger) *TreeLoader {
	return &TreeLoader{
		classifier:  cls,
		fileManager: fileManager,
		logger:      logger.With().Str("component", "TreeLoader").Logger(),
	}
}

// Load walks the tree rooted at root and returns its file table. Logical
// paths are slash-separated and rooted at "/", independent of where the
// tree was extracted. The root directory itself is not an entry.
func (tl *TreeLoader) Load(ctx context.Context, root string, cache *classifier.Cache) (models.FileTable, error) {
	rootInfo, err := tl.fileManager.GetFileInfo(root)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewStructuralError(root, "tree root does not exist")
		}
		return nil, common.NewStructuralError(root, "tree root is not accessible")
	}
	if !rootInfo.IsDir {
		return nil, common.NewStructuralError(root, "tree root is not a directory")
	}

	table := make(models.FileTable)

	walkErr := filepath.WalkDir(root, func(physical string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if physical == root {
			return nil
		}

		entry, err := tl.buildEntry(root, physical, d, cache)
		if err != nil {
			return err
		}
		table[entry.LogicalPath] = entry
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.NewStructuralError(root, "tree walk failed: "+walkErr.Error())
	}

	tl.logger.Debug().
		Str("root", root).
		Int("entries", len(table)).
		Msg("Tree ingested")

	return table, nil
}

// buildEntry lstat-classifies one walked path.
func (tl *TreeLoader) buildEntry(root, physical string, d fs.DirEntry, cache *classifier.Cache) (*models.FileEntry, error) {
	rel, err := filepath.Rel(root, physical)
	if err != nil {
		return nil, err
	}
	logical := "/" + filepath.ToSlash(rel)

	info, err := d.Info()
	if err != nil {
		return nil, err
	}
	isSymlink := info.Mode()&fs.ModeSymlink != 0

	format := tl.classifier.Classify(classifier.ClassifyInput{
		LogicalPath:  logical,
		PhysicalPath: physical,
		IsDir:        d.IsDir(),
		IsSymlink:    isSymlink,
	}, cache)

	entry := &models.FileEntry{
		LogicalPath:  logical,
		PhysicalPath: physical,
		Format:       format,
		IsDir:        d.IsDir(),
		IsSymlink:    isSymlink,
	}
	if !d.IsDir() {
		entry.SizeBytes = info.Size()
	}
	return entry, nil
}
