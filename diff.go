package dfdrift

import (
	"sort"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// Diff compares two fingerprints and returns the structured change set.
// A nil old fingerprint is the first observation at a call site: there is
// nothing to compare against, so the result is empty. Null-count changes
// are informational only and never produce a change on their own; column
// identity, dtype, and shape are the drift triggers.
func Diff(old *types.Fingerprint, current types.Fingerprint) types.ChangeSet {
	if old == nil {
		return types.ChangeSet{}
	}

	// Digest fast path for the common no-change case
	if old.Digest() == current.Digest() && old.Equal(current) {
		return types.ChangeSet{}
	}

	var cs types.ChangeSet

	for _, name := range current.Columns.Names() {
		if !old.Columns.Has(name) {
			cs.AddedColumns = append(cs.AddedColumns, name)
		}
	}
	for _, name := range old.Columns.Names() {
		if !current.Columns.Has(name) {
			cs.RemovedColumns = append(cs.RemovedColumns, name)
		}
	}
	sort.Strings(cs.AddedColumns)
	sort.Strings(cs.RemovedColumns)

	for _, name := range current.Columns.Names() {
		oldStat, ok := old.Columns.Get(name)
		if !ok {
			continue
		}
		newStat, _ := current.Columns.Get(name)
		if oldStat.DType != newStat.DType {
			if cs.TypeChanges == nil {
				cs.TypeChanges = make(map[string]types.TypeChange)
			}
			cs.TypeChanges[name] = types.TypeChange{Old: oldStat.DType, New: newStat.DType}
		}
	}

	if old.Shape != current.Shape {
		cs.ShapeChanged = true
		cs.OldShape = old.Shape
		cs.NewShape = current.Shape
	}

	return cs
}
