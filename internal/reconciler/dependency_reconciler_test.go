package reconciler

import (
	"testing"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depTable(records ...models.DependencyRecord) models.DependencyTable {
	table := make(models.DependencyTable, len(records))
	for _, record := range records {
		table[record.Name] = record
	}
	return table
}

func findDiff(t *testing.T, result models.DependencyKindResult, name string) models.DependencyDiff {
	t.Helper()
	for _, diff := range result.Diffs {
		if diff.Name == name {
			return diff
		}
	}
	t.Fatalf("no diff for dependency %q", name)
	return models.DependencyDiff{}
}

func TestDependencyReconcileVersionBump(t *testing.T) {
	oldDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libfoo", Operator: ">=", Version: "1.0"},
		),
	}
	newDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libfoo", Operator: ">=", Version: "2.0"},
			models.DependencyRecord{Name: "libbar", Operator: "", Version: ""},
		),
	}

	dr := NewDependencyReconciler(zerolog.Nop())
	results := dr.Reconcile(oldDeps, newDeps)

	require.Len(t, results, 1)
	require.Len(t, results[0].Diffs, 2)

	assert.Equal(t, models.DepChanged, findDiff(t, results[0], "libfoo").Status)
	assert.Equal(t, models.DepAdded, findDiff(t, results[0], "libbar").Status)
}

func TestDependencyReconcileRemoved(t *testing.T) {
	oldDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libgone", Operator: "=", Version: "3.1"},
		),
	}

	dr := NewDependencyReconciler(zerolog.Nop())
	results := dr.Reconcile(oldDeps, models.DependencySet{})

	require.Len(t, results, 1)
	diff := findDiff(t, results[0], "libgone")
	assert.Equal(t, models.DepRemoved, diff.Status)
	assert.Equal(t, "3.1", diff.Old.Version)
}

func TestDependencyReconcileIdenticalUnchanged(t *testing.T) {
	deps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libsame", Operator: ">=", Version: "1.0"},
		),
	}

	dr := NewDependencyReconciler(zerolog.Nop())
	results := dr.Reconcile(deps, deps)

	require.Len(t, results, 1)
	assert.Equal(t, models.DepUnchanged, findDiff(t, results[0], "libsame").Status)
}

func TestDependencyReconcileEmptyConstraintStaysUnchanged(t *testing.T) {
	oldDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libloose"},
		),
	}
	newDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libloose", Operator: ">=", Version: "1.0"},
		),
	}

	dr := NewDependencyReconciler(zerolog.Nop())

	// gaining a constraint is not a change when the old side declared none
	results := dr.Reconcile(oldDeps, newDeps)
	require.Len(t, results, 1)
	assert.Equal(t, models.DepUnchanged, findDiff(t, results[0], "libloose").Status)

	// and symmetrically when the new side drops it
	results = dr.Reconcile(newDeps, oldDeps)
	require.Len(t, results, 1)
	assert.Equal(t, models.DepUnchanged, findDiff(t, results[0], "libloose").Status)
}

func TestDependencyReconcileKindsAreIndependent(t *testing.T) {
	oldDeps := models.DependencySet{
		"requires": depTable(
			models.DependencyRecord{Name: "libfoo", Operator: ">=", Version: "1.0"},
		),
	}
	newDeps := models.DependencySet{
		"suggests": depTable(
			models.DependencyRecord{Name: "libfoo", Operator: ">=", Version: "1.0"},
		),
	}

	dr := NewDependencyReconciler(zerolog.Nop())
	results := dr.Reconcile(oldDeps, newDeps)

	// kinds come back in sorted order
	require.Len(t, results, 2)
	assert.Equal(t, "requires", results[0].Kind)
	assert.Equal(t, models.DepRemoved, findDiff(t, results[0], "libfoo").Status)
	assert.Equal(t, "suggests", results[1].Kind)
	assert.Equal(t, models.DepAdded, findDiff(t, results[1], "libfoo").Status)
}
