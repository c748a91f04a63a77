package reconciler

import (
	"sort"

	"github.com/aleister1102/pkgdelta/internal/models"
	"github.com/rs/zerolog"
)

// DependencyReconciler reconciles declared dependency records between two
// package descriptors. Identity is by exact name only; no similarity or
// rename logic applies to dependencies.
type DependencyReconciler struct {
	logger zerolog.Logger
}

// NewDependencyReconciler creates a new DependencyReconciler
func NewDependencyReconciler(logger zerolog.Logger) *DependencyReconciler {
	return &DependencyReconciler{
		logger: logger.With().Str("component", "DependencyReconciler").Logger(),
	}
}

// Reconcile compares two dependency sets kind by kind. Kinds and names are
// processed in sorted order so output is deterministic.
func (dr *DependencyReconciler) Reconcile(oldDeps, newDeps models.DependencySet) []models.DependencyKindResult {
	kinds := unionKinds(oldDeps, newDeps)

	results := make([]models.DependencyKindResult, 0, len(kinds))
	for _, kind := range kinds {
		results = append(results, dr.reconcileKind(kind, oldDeps[kind], newDeps[kind]))
	}
	return results
}

// reconcileKind reconciles one dependency kind.
func (dr *DependencyReconciler) reconcileKind(kind string, oldTable, newTable models.DependencyTable) models.DependencyKindResult {
	result := models.DependencyKindResult{Kind: kind}

	for _, name := range sortedNames(oldTable) {
		oldRecord := oldTable[name]
		newRecord, inNew := newTable[name]
		if !inNew {
			result.Diffs = append(result.Diffs, models.DependencyDiff{
				Name:   name,
				Kind:   kind,
				Status: models.DepRemoved,
				Old:    oldRecord,
			})
			continue
		}
		result.Diffs = append(result.Diffs, models.DependencyDiff{
			Name:   name,
			Kind:   kind,
			Status: recordStatus(oldRecord, newRecord),
			Old:    oldRecord,
			New:    newRecord,
		})
	}

	for _, name := range sortedNames(newTable) {
		if _, inOld := oldTable[name]; inOld {
			continue
		}
		result.Diffs = append(result.Diffs, models.DependencyDiff{
			Name:   name,
			Kind:   kind,
			Status: models.DepAdded,
			New:    newTable[name],
		})
	}

	return result
}

// recordStatus settles a name present in both sets: changed only when the
// operator/version constraint differs and both sides actually declare one.
func recordStatus(oldRecord, newRecord models.DependencyRecord) models.DependencyStatus {
	if oldRecord.Equal(newRecord) {
		return models.DepUnchanged
	}
	if oldRecord.Operator == "" && oldRecord.Version == "" {
		return models.DepUnchanged
	}
	if newRecord.Operator == "" && newRecord.Version == "" {
		return models.DepUnchanged
	}
	return models.DepChanged
}

// unionKinds returns the sorted union of kinds across both sets.
func unionKinds(oldDeps, newDeps models.DependencySet) []string {
	seen := make(map[string]struct{})
	for kind := range oldDeps {
		seen[kind] = struct{}{}
	}
	for kind := range newDeps {
		seen[kind] = struct{}{}
	}

	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// sortedNames returns a table's names in sorted order.
func sortedNames(table models.DependencyTable) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
