package models

// DependencyRecord is one declared dependency of a package version, scoped
// to a kind ("requires", "provides", ...). Two records are equal iff name,
// operator, and version string all match exactly.
type DependencyRecord struct {
	Name     string `json:"name" yaml:"name"`
	Operator string `json:"operator,omitempty" yaml:"op,omitempty"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Equal reports exact equality of operator and version. Name equality is
// implied by map keying and is not rechecked here.
func (dr DependencyRecord) Equal(other DependencyRecord) bool {
	return dr.Operator == other.Operator && dr.Version == other.Version
}

// DependencyTable maps dependency name to its record within one kind.
type DependencyTable map[string]DependencyRecord

// DependencySet groups a version's dependency tables by kind.
type DependencySet map[string]DependencyTable

// DependencyStatus is the reconciliation verdict for one dependency name.
type DependencyStatus string

const (
	// DepAdded indicates a name present only in the new set.
	DepAdded DependencyStatus = "added"
	// DepRemoved indicates a name present only in the old set.
	DepRemoved DependencyStatus = "removed"
	// DepChanged indicates a name present in both with differing non-empty
	// operator/version.
	DepChanged DependencyStatus = "changed"
	// DepUnchanged indicates an exact match.
	DepUnchanged DependencyStatus = "unchanged"
)

// DependencyDiff is the per-name reconciliation outcome.
type DependencyDiff struct {
	Name   string           `json:"name"`
	Kind   string           `json:"kind"`
	Status DependencyStatus `json:"status"`
	Old    DependencyRecord `json:"old,omitempty"`
	New    DependencyRecord `json:"new,omitempty"`
}

// DependencyKindResult collects the diffs of one dependency kind.
type DependencyKindResult struct {
	Kind  string           `json:"kind"`
	Diffs []DependencyDiff `json:"diffs"`
}

// CountByStatus tallies diffs per status.
func (dkr *DependencyKindResult) CountByStatus() map[DependencyStatus]int {
	counts := make(map[DependencyStatus]int)
	for _, d := range dkr.Diffs {
		counts[d.Status]++
	}
	return counts
}
