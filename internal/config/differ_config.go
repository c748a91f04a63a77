package config

// DifferConfig defines configuration for the textual-diff collaborator and
// the change-rate worker pool.
type DifferConfig struct {
	// ContextLines is the unified-diff context width passed through to the
	// diff collaborator unchanged.
	ContextLines int `json:"context_lines,omitempty" yaml:"context_lines,omitempty" validate:"min=0"`
	// IgnoreWhitespace strips trailing/leading whitespace before diffing.
	IgnoreWhitespace bool `json:"ignore_whitespace,omitempty" yaml:"ignore_whitespace,omitempty"`
	// Minimal requests the smallest diff the collaborator can produce.
	Minimal bool `json:"minimal,omitempty" yaml:"minimal,omitempty"`
	// MaxDiffFileSizeMB skips rate computation for larger files. Checked
	// before dispatching to a worker.
	MaxDiffFileSizeMB int `json:"max_diff_file_size_mb,omitempty" yaml:"max_diff_file_size_mb,omitempty" validate:"min=1"`
	// DiffTimeoutSecs bounds one diff invocation; a timeout reports the
	// pair as skipped.
	DiffTimeoutSecs int `json:"diff_timeout_secs,omitempty" yaml:"diff_timeout_secs,omitempty" validate:"min=1"`
	// Workers sizes the rate-computation pool.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"min=1"`
}

// NewDefaultDifferConfig creates default differ configuration
func NewDefaultDifferConfig() DifferConfig {
	return DifferConfig{
		ContextLines:      DefaultDiffContextLines,
		IgnoreWhitespace:  false,
		Minimal:           false,
		MaxDiffFileSizeMB: DefaultDiffMaxFileSizeMB,
		DiffTimeoutSecs:   DefaultDiffTimeoutSecs,
		Workers:           DefaultDiffWorkers,
	}
}
