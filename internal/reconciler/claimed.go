package reconciler

// claimedSet tracks logical paths already consumed by a move or rename
// correspondence, per side: a format-mismatch split lists the same path as
// both removed and added, so claiming one side must never consume the other.
// Matching is sequential and order-dependent: every candidate is checked
// against this arena before being accepted, instead of deleting from the
// candidate maps mid-iteration.
type claimedSet struct {
	oldPaths map[string]struct{}
	newPaths map[string]struct{}
}

func newClaimedSet() *claimedSet {
	return &claimedSet{
		oldPaths: make(map[string]struct{}),
		newPaths: make(map[string]struct{}),
	}
}

func (cs *claimedSet) claimOld(path string) {
	cs.oldPaths[path] = struct{}{}
}

func (cs *claimedSet) claimNew(path string) {
	cs.newPaths[path] = struct{}{}
}

func (cs *claimedSet) isOldClaimed(path string) bool {
	_, ok := cs.oldPaths[path]
	return ok
}

func (cs *claimedSet) isNewClaimed(path string) bool {
	_, ok := cs.newPaths[path]
	return ok
}

// filterOld returns the paths not yet claimed on the removed side.
func (cs *claimedSet) filterOld(paths []string) []string {
	var free []string
	for _, p := range paths {
		if !cs.isOldClaimed(p) {
			free = append(free, p)
		}
	}
	return free
}

// filterNew returns the paths not yet claimed on the added side.
func (cs *claimedSet) filterNew(paths []string) []string {
	var free []string
	for _, p := range paths {
		if !cs.isNewClaimed(p) {
			free = append(free, p)
		}
	}
	return free
}
