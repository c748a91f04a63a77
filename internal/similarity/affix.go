// Package similarity provides the cheap string-similarity heuristics the
// file-set reconciler uses in place of a true edit distance.
package similarity

// CommonAffixLength returns the shared-prefix length plus the shared-suffix
// length of two strings. Prefix and suffix are measured independently from
// each end and each is capped at min(len(a), len(b)), so the two regions
// never account for more than that many positions apiece.
func CommonAffixLength(a, b string) int {
	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}

	prefix := 0
	for prefix < limit && a[prefix] == b[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < limit && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	return prefix + suffix
}

// SizeGrowth returns how many bytes the new size exceeds the old size by,
// never negative. Shrinkage is deliberately not measured here; the rate
// formula accounts for removed bytes through the patch artifact instead.
func SizeGrowth(oldSize, newSize int64) int64 {
	if newSize > oldSize {
		return newSize - oldSize
	}
	return 0
}
