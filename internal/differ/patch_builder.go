package differ

import (
	"context"
	"strings"
	"time"

	"github.com/aleister1102/pkgdelta/internal/config"
	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffCollaborator is the textual-diff boundary: given two contents it
// returns a patch-style artifact of +/-/context lines. The built-in
// implementation diffs in process; a subprocess wrapper can replace it
// without touching the rate computer.
type DiffCollaborator interface {
	BuildPatch(ctx context.Context, oldContent, newContent []byte, oldPath, newPath string) (*models.PatchArtifact, error)
}

// PatchBuilder is the built-in DiffCollaborator on top of go-diff's
// line-mode diffing.
type PatchBuilder struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config config.DifferConfig
}

// NewPatchBuilder creates a patch builder honoring the differ options.
func NewPatchBuilder(cfg config.DifferConfig) *PatchBuilder {
	dmp := diffmatchpatch.New()
	if cfg.DiffTimeoutSecs > 0 {
		dmp.DiffTimeout = time.Duration(cfg.DiffTimeoutSecs) * time.Second
	}
	return &PatchBuilder{
		dmp:    dmp,
		config: cfg,
	}
}

// BuildPatch produces the patch artifact for one file pair. Context runs
// are trimmed to the configured width; the ignore-whitespace and minimal
// options are applied before and after diffing respectively.
func (pb *PatchBuilder) BuildPatch(ctx context.Context, oldContent, newContent []byte, oldPath, newPath string) (*models.PatchArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	textA := string(oldContent)
	textB := string(newContent)
	if pb.config.IgnoreWhitespace {
		textA = stripLineWhitespace(textA)
		textB = stripLineWhitespace(textB)
	}

	diffs := pb.lineDiff(textA, textB)
	if pb.config.Minimal {
		diffs = pb.dmp.DiffCleanupSemantic(diffs)
	}

	artifact := &models.PatchArtifact{
		OldPath: oldPath,
		NewPath: newPath,
		Lines:   pb.renderLines(diffs),
	}
	return artifact, nil
}

// lineDiff runs go-diff in line mode so every diff fragment is a whole
// number of lines.
func (pb *PatchBuilder) lineDiff(textA, textB string) []diffmatchpatch.Diff {
	charsA, charsB, lineArray := pb.dmp.DiffLinesToChars(textA, textB)
	diffs := pb.dmp.DiffMain(charsA, charsB, false)
	return pb.dmp.DiffCharsToLines(diffs, lineArray)
}

// renderLines flattens diff fragments into patch lines, limiting context
// runs to the configured width on each side of a change.
func (pb *PatchBuilder) renderLines(diffs []diffmatchpatch.Diff) []models.PatchLine {
	var lines []models.PatchLine

	for i, diff := range diffs {
		fragment := splitLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			for _, text := range fragment {
				lines = append(lines, models.PatchLine{Kind: models.PatchRemoved, Text: text})
			}
		case diffmatchpatch.DiffInsert:
			for _, text := range fragment {
				lines = append(lines, models.PatchLine{Kind: models.PatchAdded, Text: text})
			}
		case diffmatchpatch.DiffEqual:
			for _, text := range pb.trimContext(fragment, i == 0, i == len(diffs)-1) {
				lines = append(lines, models.PatchLine{Kind: models.PatchContext, Text: text})
			}
		}
	}

	return lines
}

// trimContext keeps at most ContextLines lines adjacent to each changed
// fragment: the tail of a leading run, the head of a trailing run, both
// ends of an interior run.
func (pb *PatchBuilder) trimContext(fragment []string, leading, trailing bool) []string {
	width := pb.config.ContextLines
	if width <= 0 || len(fragment) <= width {
		return fragment
	}

	switch {
	case leading:
		return fragment[len(fragment)-width:]
	case trailing:
		return fragment[:width]
	case len(fragment) <= 2*width:
		return fragment
	default:
		trimmed := make([]string, 0, 2*width)
		trimmed = append(trimmed, fragment[:width]...)
		trimmed = append(trimmed, fragment[len(fragment)-width:]...)
		return trimmed
	}
}

// splitLines splits diff fragment text into lines without trailing newlines.
func splitLines(text string) []string {
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" && text != "" {
		// fragment was a single newline
		return []string{""}
	}
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// stripLineWhitespace removes leading/trailing whitespace per line so
// whitespace-only edits vanish from the diff.
func stripLineWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
