// Package dfdrift detects unintended structural drift in tabular datasets
// produced repeatedly by the same piece of code. Each validation derives a
// structural fingerprint of the dataset (column names, dtypes, null counts,
// shape), keys it by the caller's source location, compares it against the
// fingerprint recorded the last time that call site ran, and alerts when
// they differ. It is a lightweight tripwire for silent schema regressions,
// not a data-contract framework: validation is advisory, synchronous, and
// best-effort.
package dfdrift

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// ErrInvalidDataset is returned when the validated value is not a usable
// tabular dataset.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is any tabular dataset with named columns, per-column logical
// types and null counts, and a row count. *frame.Frame implements it.
type Dataset interface {
	// Columns returns the column names in native order.
	Columns() []string

	// DType returns the logical type label of a column.
	DType(name string) string

	// NullCount returns the number of missing entries in a column.
	NullCount(name string) int

	// Len returns the row count.
	Len() int
}

// Extract computes the structural fingerprint of a dataset. Zero rows or
// zero columns are valid and produce the corresponding empty fingerprint.
func Extract(ds Dataset) (types.Fingerprint, error) {
	if isNilDataset(ds) {
		return types.Fingerprint{}, fmt.Errorf("%w: nil dataset", ErrInvalidDataset)
	}

	names := ds.Columns()
	rows := ds.Len()

	cols := types.NewColumnSet()
	for _, name := range names {
		if cols.Has(name) {
			return types.Fingerprint{}, fmt.Errorf("%w: duplicate column %q",
				ErrInvalidDataset, name)
		}
		nulls := ds.NullCount(name)
		if nulls < 0 || nulls > rows {
			return types.Fingerprint{}, fmt.Errorf("%w: column %q reports %d nulls over %d rows",
				ErrInvalidDataset, name, nulls, rows)
		}
		cols.Add(name, types.ColumnStat{
			DType:      ds.DType(name),
			NullCount:  nulls,
			TotalCount: rows,
		})
	}

	return types.Fingerprint{
		Columns: cols,
		Shape:   types.Shape{Rows: rows, Cols: len(names)},
	}, nil
}

// isNilDataset catches both an untyped nil interface and a typed nil
// pointer (e.g. a nil *frame.Frame), which compares non-nil as an
// interface value.
func isNilDataset(ds Dataset) bool {
	if ds == nil {
		return true
	}
	v := reflect.ValueOf(ds)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
