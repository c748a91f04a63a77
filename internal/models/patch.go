package models

// PatchLineKind classifies one line of a patch artifact.
type PatchLineKind int

const (
	// PatchContext is an unchanged context line.
	PatchContext PatchLineKind = 0
	// PatchAdded is a line present only in the new content.
	PatchAdded PatchLineKind = 1
	// PatchRemoved is a line present only in the old content.
	PatchRemoved PatchLineKind = -1
)

// PatchLine is one rendered line of a unified-style patch.
type PatchLine struct {
	Kind PatchLineKind `json:"kind"`
	// Text is the line body without the +/-/space prefix and without the
	// trailing newline.
	Text string `json:"text"`
}

// PatchArtifact is the patch-style output of the textual-diff collaborator
// for one file pair.
type PatchArtifact struct {
	OldPath string      `json:"old_path"`
	NewPath string      `json:"new_path"`
	Lines   []PatchLine `json:"lines"`
	// Truncated is set when the diff was cut off by a size or time limit.
	Truncated bool `json:"truncated,omitempty"`
}

// RemovedOrChangedBytes sums the byte length of all non-context lines that
// are not pure additions. This feeds the change-rate formula and is
// deliberately line-oriented rather than a true edit distance.
func (pa *PatchArtifact) RemovedOrChangedBytes() int64 {
	var total int64
	for _, line := range pa.Lines {
		if line.Kind == PatchRemoved {
			total += int64(len(line.Text))
		}
	}
	return total
}

// IsEmpty reports whether the patch contains no added or removed lines.
func (pa *PatchArtifact) IsEmpty() bool {
	for _, line := range pa.Lines {
		if line.Kind != PatchContext {
			return false
		}
	}
	return true
}
