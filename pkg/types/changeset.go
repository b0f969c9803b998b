package types

import (
	"fmt"
	"sort"
	"strings"
)

// TypeChange records a column whose dtype differs between two fingerprints.
type TypeChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ChangeSet is the structured difference between two fingerprints.
// The zero value is the empty change set, which means "no drift".
type ChangeSet struct {
	// AddedColumns are columns present in the new fingerprint only
	AddedColumns []string `json:"added_columns,omitempty"`

	// RemovedColumns are columns present in the old fingerprint only
	RemovedColumns []string `json:"removed_columns,omitempty"`

	// TypeChanges maps column name to its old and new dtype
	TypeChanges map[string]TypeChange `json:"type_changes,omitempty"`

	// ShapeChanged is true iff the shapes differ; OldShape and NewShape
	// carry both shapes for reporting and are only meaningful when set
	ShapeChanged bool  `json:"shape_changed,omitempty"`
	OldShape     Shape `json:"old_shape"`
	NewShape     Shape `json:"new_shape"`
}

// Empty reports whether the change set records no drift.
func (c ChangeSet) Empty() bool {
	return len(c.AddedColumns) == 0 &&
		len(c.RemovedColumns) == 0 &&
		len(c.TypeChanges) == 0 &&
		!c.ShapeChanged
}

// Summary renders the change set as a single human-readable line.
// Sections appear in fixed order (added, removed, type changes, shape),
// non-empty sections only, joined by "; ". Column names within a section
// are sorted so the summary is stable across runs.
func (c ChangeSet) Summary() string {
	var parts []string

	if len(c.AddedColumns) > 0 {
		parts = append(parts, "Added columns: "+quoteList(c.AddedColumns))
	}
	if len(c.RemovedColumns) > 0 {
		parts = append(parts, "Removed columns: "+quoteList(c.RemovedColumns))
	}
	if len(c.TypeChanges) > 0 {
		names := make([]string, 0, len(c.TypeChanges))
		for name := range c.TypeChanges {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tc := c.TypeChanges[name]
			parts = append(parts, fmt.Sprintf("Column '%s' dtype changed: %s → %s", name, tc.Old, tc.New))
		}
	}
	if c.ShapeChanged {
		parts = append(parts, fmt.Sprintf("Shape changed: %s → %s", c.OldShape, c.NewShape))
	}

	return strings.Join(parts, "; ")
}

// quoteList renders names as a sorted, single-quoted list: ['a', 'b'].
func quoteList(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, name := range sorted {
		quoted[i] = "'" + name + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
