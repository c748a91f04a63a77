package reconciler

import (
	"path"
	"sort"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/aleister1102/pkgdelta/internal/similarity"
)

// RenameDetector pairs removed paths with added paths inside the same
// directory whose names overlap strongly enough. It runs after move
// detection, over the paths that survived it unclaimed.
type RenameDetector struct {
	scorer               *similarity.RenameScorer
	matchFactor          float64
	singletonMatchFactor float64
}

// NewRenameDetector creates a rename detector.
func NewRenameDetector(scorer *similarity.RenameScorer, matchFactor, singletonMatchFactor float64) *RenameDetector {
	return &RenameDetector{
		scorer:               scorer,
		matchFactor:          matchFactor,
		singletonMatchFactor: singletonMatchFactor,
	}
}

// renameCandidate is one scored added-path candidate for a removed path.
type renameCandidate struct {
	path    string
	name    string
	affix   int
	lenDiff int
}

// Detect returns rename correspondences among the remaining removed/added
// paths. Candidates are confined to the removed path's directory, ranked by
// descending affix overlap then ascending length difference, and must carry
// the same format as the removed file.
func (rd *RenameDetector) Detect(removed, added []string, oldFiles, newFiles models.FileTable, claimed *claimedSet) []models.Correspondence {
	var renames []models.Correspondence

	removedByDir := groupByDir(removed)
	addedByDir := groupByDir(added)

	dirs := make([]string, 0, len(removedByDir))
	for dir := range removedByDir {
		if _, ok := addedByDir[dir]; ok {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		removedGroup := claimed.filterOld(removedByDir[dir])
		addedGroup := claimed.filterNew(addedByDir[dir])
		if len(removedGroup) == 0 || len(addedGroup) == 0 {
			continue
		}

		// exactly one removed and one added in this directory is low
		// ambiguity; the stronger factor loosens the affix requirement
		factor := rd.matchFactor
		if len(removedGroup) == 1 && len(addedGroup) == 1 {
			factor = rd.singletonMatchFactor
		}

		for _, removedPath := range removedGroup {
			if claimed.isOldClaimed(removedPath) {
				continue
			}
			match := rd.findMatch(removedPath, addedGroup, oldFiles, newFiles, claimed, factor)
			if match == "" {
				continue
			}
			renames = append(renames, models.Correspondence{
				OldPath: removedPath,
				NewPath: match,
				Kind:    models.CorrespondenceRename,
			})
			claimed.claimOld(removedPath)
			claimed.claimNew(match)
		}
	}

	return renames
}

// findMatch returns the best-ranked added path that passes the rename
// score, or "" when none does.
func (rd *RenameDetector) findMatch(removedPath string, addedGroup []string, oldFiles, newFiles models.FileTable, claimed *claimedSet, factor float64) string {
	removedName := path.Base(removedPath)
	removedEntry := oldFiles[removedPath]

	candidates := make([]renameCandidate, 0, len(addedGroup))
	for _, addedPath := range addedGroup {
		if claimed.isNewClaimed(addedPath) {
			continue
		}
		name := path.Base(addedPath)
		candidates = append(candidates, renameCandidate{
			path:    addedPath,
			name:    name,
			affix:   similarity.CommonAffixLength(removedName, name),
			lenDiff: absInt(len(name) - len(removedName)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].affix != candidates[j].affix {
			return candidates[i].affix > candidates[j].affix
		}
		if candidates[i].lenDiff != candidates[j].lenDiff {
			return candidates[i].lenDiff < candidates[j].lenDiff
		}
		return candidates[i].path < candidates[j].path
	})

	for _, candidate := range candidates {
		// a format mismatch disqualifies the candidate outright
		addedEntry := newFiles[candidate.path]
		if removedEntry != nil && addedEntry != nil && removedEntry.Format != addedEntry.Format {
			continue
		}
		if rd.scorer.Match(removedName, candidate.name, factor) {
			return candidate.path
		}
	}
	return ""
}

// groupByDir buckets paths by parent directory, each bucket sorted.
func groupByDir(paths []string) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range paths {
		dir := path.Dir(p)
		groups[dir] = append(groups[dir], p)
	}
	for dir := range groups {
		sort.Strings(groups[dir])
	}
	return groups
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
