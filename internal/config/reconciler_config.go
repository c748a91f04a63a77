package config

// ReconcilerConfig defines configuration for file-set reconciliation.
type ReconcilerConfig struct {
	// MovePrefixDepth bounds the directory-prefix chains used to narrow
	// ambiguous same-filename move candidates.
	MovePrefixDepth int `json:"move_prefix_depth,omitempty" yaml:"move_prefix_depth,omitempty" validate:"min=1"`
	// RenameBaseRatio tunes the affix-overlap threshold in the rename score.
	RenameBaseRatio float64 `json:"rename_base_ratio,omitempty" yaml:"rename_base_ratio,omitempty" validate:"gt=0,lt=1"`
	// MatchFactor is the rename match strength for ambiguous directories.
	MatchFactor float64 `json:"match_factor,omitempty" yaml:"match_factor,omitempty" validate:"gt=0"`
	// SingletonMatchFactor is used when a directory holds exactly one
	// removed and one added file.
	SingletonMatchFactor float64 `json:"singleton_match_factor,omitempty" yaml:"singleton_match_factor,omitempty" validate:"gt=0"`
	// RenameRateCeiling retracts a rename whose change rate reaches it.
	RenameRateCeiling float64 `json:"rename_rate_ceiling,omitempty" yaml:"rename_rate_ceiling,omitempty" validate:"gt=0,lte=1"`
	// MoveRateCeiling retracts a move whose change rate reaches it.
	MoveRateCeiling float64 `json:"move_rate_ceiling,omitempty" yaml:"move_rate_ceiling,omitempty" validate:"gt=0,lte=1"`
}

// NewDefaultReconcilerConfig creates default reconciler configuration
func NewDefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		MovePrefixDepth:      DefaultMovePrefixDepth,
		RenameBaseRatio:      DefaultRenameBaseRatio,
		MatchFactor:          DefaultRenameMatchFactor,
		SingletonMatchFactor: DefaultSingletonMatchFactor,
		RenameRateCeiling:    DefaultRenameRateCeiling,
		MoveRateCeiling:      DefaultMoveRateCeiling,
	}
}
