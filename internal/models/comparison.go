package models

// FileStatus is the per-file verdict of a comparison run. It is derived,
// never stored: the reconciler recomputes every status from scratch each run.
type FileStatus string

const (
	// StatusUnchanged indicates identical content on both sides.
	StatusUnchanged FileStatus = "unchanged"
	// StatusChanged indicates the same logical path with differing content.
	StatusChanged FileStatus = "changed"
	// StatusAdded indicates a path present only in the new version.
	StatusAdded FileStatus = "added"
	// StatusRemoved indicates a path present only in the old version.
	StatusRemoved FileStatus = "removed"
	// StatusRenamed indicates an old path matched to a new path in the same directory.
	StatusRenamed FileStatus = "renamed"
	// StatusMoved indicates an identical filename matched across directories.
	StatusMoved FileStatus = "moved"
	// StatusSkipped indicates rate computation was skipped (oversize, diff
	// failure, or timeout); no ChangeRate is attached.
	StatusSkipped FileStatus = "skipped"
)

// CorrespondenceKind distinguishes rename from move correspondences.
type CorrespondenceKind string

const (
	// CorrespondenceRename links two names inside one directory.
	CorrespondenceRename CorrespondenceKind = "rename"
	// CorrespondenceMove links one filename across two directories.
	CorrespondenceMove CorrespondenceKind = "move"
)

// Correspondence maps an old-version logical path to a new-version logical
// path. The full correspondence set is a partial injection: no path appears
// as the source or the target of more than one correspondence.
type Correspondence struct {
	OldPath string             `json:"old_path"`
	NewPath string             `json:"new_path"`
	Kind    CorrespondenceKind `json:"kind"`
}

// PairResult is the comparison outcome for one logical file, covering both
// sides of a rename/move pair when one exists.
type PairResult struct {
	OldEntry *FileEntry `json:"old_entry,omitempty"`
	NewEntry *FileEntry `json:"new_entry,omitempty"`
	Status   FileStatus `json:"status"`
	// Rate is the normalized change magnitude in [0,1]. Only meaningful for
	// changed/renamed/moved results; HasRate guards against reading a zero
	// value as "byte-identical".
	Rate    float64 `json:"rate,omitempty"`
	HasRate bool    `json:"has_rate,omitempty"`
	// DiffRef points at the emitted patch artifact for this pair, if any.
	DiffRef string `json:"diff_ref,omitempty"`
	// SkipReason is set when Status is StatusSkipped.
	SkipReason string `json:"skip_reason,omitempty"`
}

// Key returns the logical path the result is reported under: the new path
// for added/renamed/moved files, the old path otherwise.
func (pr *PairResult) Key() string {
	if pr.NewEntry != nil {
		return pr.NewEntry.LogicalPath
	}
	return pr.OldEntry.LogicalPath
}

// ReconcileResult is the authoritative per-file status table for one run.
type ReconcileResult struct {
	// Results holds one entry per logical file, keyed per PairResult.Key.
	Results map[string]*PairResult `json:"results"`
	// Correspondences lists confirmed rename/move pairs after retraction.
	Correspondences []Correspondence `json:"correspondences,omitempty"`
}

// NewReconcileResult creates an empty result table.
func NewReconcileResult() *ReconcileResult {
	return &ReconcileResult{
		Results: make(map[string]*PairResult),
	}
}

// CountByStatus tallies results per status.
func (rr *ReconcileResult) CountByStatus() map[FileStatus]int {
	counts := make(map[FileStatus]int)
	for _, res := range rr.Results {
		counts[res.Status]++
	}
	return counts
}
