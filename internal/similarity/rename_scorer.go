package similarity

import (
	"path"
	"strings"
)

// RenameScorer decides whether two filenames are similar enough to be the
// same file under a new name. The verdict is a best-effort heuristic built
// on affix overlap, not a guarantee of identity; the reconciler retracts
// false positives later based on content evidence.
type RenameScorer struct {
	// BaseRatio tunes how much of the combined name length the affix
	// overlap must cover.
	BaseRatio float64
	// ShortNameLength is the stem length at or below which a shared
	// extension is stripped before scoring, since short stems make affix
	// overlap unreliable.
	ShortNameLength int
}

// NewRenameScorer creates a scorer with the given tuning constants.
func NewRenameScorer(baseRatio float64, shortNameLength int) *RenameScorer {
	if baseRatio <= 0 {
		baseRatio = 0.55
	}
	if shortNameLength <= 0 {
		shortNameLength = 8
	}
	return &RenameScorer{
		BaseRatio:       baseRatio,
		ShortNameLength: shortNameLength,
	}
}

// Match reports whether nameA and nameB overlap strongly enough to be a
// rename candidate. matchFactor scales the requirement: the reconciler
// passes a larger factor (loosening the threshold) when the candidate set
// is already an unambiguous one-removed/one-added pair, and 1.0 otherwise.
func (rs *RenameScorer) Match(nameA, nameB string, matchFactor float64) bool {
	if nameA == "" || nameB == "" {
		return false
	}
	if matchFactor <= 0 {
		matchFactor = 1.0
	}

	a, b := nameA, nameB
	if rs.isShort(a, b) {
		a, b = stripSharedExtension(a, b)
	}

	affix := CommonAffixLength(a, b)
	threshold := float64(len(a)+len(b)) / (matchFactor / rs.BaseRatio)

	return float64(affix) >= threshold
}

// isShort reports whether either name is at or below the short-stem bound.
func (rs *RenameScorer) isShort(a, b string) bool {
	return len(a) <= rs.ShortNameLength || len(b) <= rs.ShortNameLength
}

// stripSharedExtension removes a common extension from both names when they
// share one, so "x.txt" vs "y.txt" is judged on the stems alone.
func stripSharedExtension(a, b string) (string, string) {
	extA := path.Ext(a)
	extB := path.Ext(b)
	if extA == "" || extA != extB {
		return a, b
	}
	return strings.TrimSuffix(a, extA), strings.TrimSuffix(b, extB)
}
