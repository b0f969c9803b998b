// Package frame provides a small columnar tabular dataset: named, typed
// columns with per-column null tracking and a uniform row count. It is the
// concrete dataset type fed to drift validation; anything exposing the same
// column/type/null surface can be validated too.
package frame

import (
	"errors"
	"fmt"
)

// Common errors for frame construction.
var (
	ErrLengthMismatch  = errors.New("column lengths differ")
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Frame is an immutable tabular dataset with ordered columns.
type Frame struct {
	cols []Column
	rows int
}

// New builds a frame from columns. All columns must share the same length,
// and names must be unique. A frame with zero columns or zero rows is valid.
func New(cols ...Column) (*Frame, error) {
	rows := 0
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if _, dup := seen[col.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.name)
		}
		seen[col.name] = struct{}{}
		if i == 0 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrLengthMismatch, col.name, col.Len(), rows)
		}
	}
	return &Frame{cols: append([]Column(nil), cols...), rows: rows}, nil
}

// Columns returns the column names in native order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, col := range f.cols {
		names[i] = col.name
	}
	return names
}

// DType returns the logical type label for a column, or "" if absent.
func (f *Frame) DType(name string) string {
	if col, ok := f.Column(name); ok {
		return string(col.dtype)
	}
	return ""
}

// NullCount returns the number of missing entries in a column.
// Unknown columns report zero.
func (f *Frame) NullCount(name string) int {
	if col, ok := f.Column(name); ok {
		return col.NullCount()
	}
	return 0
}

// Len returns the row count.
func (f *Frame) Len() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	for _, col := range f.cols {
		if col.name == name {
			return col, true
		}
	}
	return Column{}, false
}
