package models

// FormatSummary is the per-format counter block of the final report.
type FormatSummary struct {
	Format    FormatTag `json:"format"`
	Total     int       `json:"total"`
	Added     int       `json:"added"`
	Removed   int       `json:"removed"`
	Changed   int       `json:"changed"`
	Skipped   int       `json:"skipped,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	// SizeDelta is the cumulative affected-byte estimate for this format:
	// full size for added/removed files, rate-weighted old size otherwise.
	SizeDelta int64 `json:"size_delta"`
}

// DependencyKindSummary is the per-kind counter block of the final report.
type DependencyKindSummary struct {
	Kind      string `json:"kind"`
	Total     int    `json:"total"`
	Added     int    `json:"added"`
	Removed   int    `json:"removed"`
	Changed   int    `json:"changed"`
	Unchanged int    `json:"unchanged"`
}

// ComparisonSummary is the aggregate result handed to the reporting
// collaborator. Recomputed per run; never persisted between runs.
type ComparisonSummary struct {
	OldVersion string `json:"old_version,omitempty"`
	NewVersion string `json:"new_version,omitempty"`

	Formats      []FormatSummary         `json:"formats"`
	Dependencies []DependencyKindSummary `json:"dependencies,omitempty"`

	TotalFiles   int `json:"total_files"`
	AddedFiles   int `json:"added_files"`
	RemovedFiles int `json:"removed_files"`
	ChangedFiles int `json:"changed_files"`
	SkippedFiles int `json:"skipped_files"`

	// PercentAffected is 100 * sum(sizeDelta) / sum(size) across files and
	// dependency records, clamped to [0,100].
	PercentAffected float64 `json:"percent_affected"`
}
