package reconciler

import (
	"path"
	"sort"
	"strings"

	"github.com/aleister1102/pkgdelta/internal/models"
)

// MoveDetector pairs removed paths with added paths that kept their
// filename but changed directory. It runs before rename detection and only
// consumes paths no earlier match has claimed.
type MoveDetector struct {
	prefixDepth int
}

// NewMoveDetector creates a move detector with the given prefix-chain depth.
func NewMoveDetector(prefixDepth int) *MoveDetector {
	if prefixDepth <= 0 {
		prefixDepth = 4
	}
	return &MoveDetector{prefixDepth: prefixDepth}
}

// Detect returns move correspondences among the removed/added sets. A pair
// qualifies only when grouping narrows it to exactly one removed and one
// added path: first by bare filename, then by directory-prefix chains of
// bounded depth for filename groups that stay ambiguous.
func (md *MoveDetector) Detect(removed, added []string, claimed *claimedSet) []models.Correspondence {
	var moves []models.Correspondence

	removedByName := groupByFilename(removed)
	addedByName := groupByFilename(added)

	names := make([]string, 0, len(removedByName))
	for name := range removedByName {
		if _, ok := addedByName[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		removedGroup := claimed.filterOld(removedByName[name])
		addedGroup := claimed.filterNew(addedByName[name])
		if len(removedGroup) == 0 || len(addedGroup) == 0 {
			continue
		}

		if len(removedGroup) == 1 && len(addedGroup) == 1 {
			if move, ok := md.makeMove(removedGroup[0], addedGroup[0]); ok {
				moves = append(moves, move)
				claimed.claimOld(move.OldPath)
				claimed.claimNew(move.NewPath)
			}
			continue
		}

		moves = append(moves, md.narrowByPrefixChain(removedGroup, addedGroup, claimed)...)
	}

	return moves
}

// narrowByPrefixChain resolves an ambiguous same-filename group by matching
// directory-prefix chains, deepest chains first. Chains walk from the
// path's leaf directory upward, so /a/b/c/x.txt yields "c", "b/c", "a/b/c".
func (md *MoveDetector) narrowByPrefixChain(removedGroup, addedGroup []string, claimed *claimedSet) []models.Correspondence {
	var moves []models.Correspondence

	for depth := md.prefixDepth; depth >= 1; depth-- {
		removedByChain := groupByChain(claimed.filterOld(removedGroup), depth)
		addedByChain := groupByChain(claimed.filterNew(addedGroup), depth)

		chains := make([]string, 0, len(removedByChain))
		for chain := range removedByChain {
			if _, ok := addedByChain[chain]; ok {
				chains = append(chains, chain)
			}
		}
		sort.Strings(chains)

		for _, chain := range chains {
			rem := claimed.filterOld(removedByChain[chain])
			add := claimed.filterNew(addedByChain[chain])
			if len(rem) != 1 || len(add) != 1 {
				continue
			}
			if move, ok := md.makeMove(rem[0], add[0]); ok {
				moves = append(moves, move)
				claimed.claimOld(move.OldPath)
				claimed.claimNew(move.NewPath)
			}
		}
	}

	return moves
}

// makeMove builds a correspondence when the pair really is a move: same
// filename, different directory.
func (md *MoveDetector) makeMove(oldPath, newPath string) (models.Correspondence, bool) {
	if path.Dir(oldPath) == path.Dir(newPath) {
		return models.Correspondence{}, false
	}
	return models.Correspondence{
		OldPath: oldPath,
		NewPath: newPath,
		Kind:    models.CorrespondenceMove,
	}, true
}

// groupByFilename buckets paths by their bare filename, each bucket sorted.
func groupByFilename(paths []string) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range paths {
		name := path.Base(p)
		groups[name] = append(groups[name], p)
	}
	for name := range groups {
		sort.Strings(groups[name])
	}
	return groups
}

// groupByChain buckets paths by the trailing depth segments of their
// directory.
func groupByChain(paths []string, depth int) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range paths {
		chain := trailingDirSegments(path.Dir(p), depth)
		groups[chain] = append(groups[chain], p)
	}
	for chain := range groups {
		sort.Strings(groups[chain])
	}
	return groups
}

// trailingDirSegments returns the last depth segments of a directory path.
func trailingDirSegments(dir string, depth int) string {
	segments := strings.Split(strings.Trim(dir, "/"), "/")
	if len(segments) > depth {
		segments = segments[len(segments)-depth:]
	}
	return strings.Join(segments, "/")
}
