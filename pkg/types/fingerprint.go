// Package types provides the core data types for dfdrift.
package types

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ColumnStat describes the structural fingerprint of a single column.
type ColumnStat struct {
	// DType is the logical type label of the column (e.g. "int64", "string")
	DType string `json:"dtype"`

	// NullCount is the number of missing entries in the column
	NullCount int `json:"null_count"`

	// TotalCount is the number of rows observed for the column
	TotalCount int `json:"total_count"`
}

// Shape records the row and column counts of a dataset.
// It serializes as a two-element array [rows, cols].
type Shape struct {
	Rows int
	Cols int
}

// MarshalJSON encodes the shape as [rows, cols].
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Rows, s.Cols})
}

// UnmarshalJSON decodes a [rows, cols] array.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("shape must be a [rows, cols] array: %w", err)
	}
	s.Rows = arr[0]
	s.Cols = arr[1]
	return nil
}

// String returns the shape in its wire form, e.g. "[100, 2]".
func (s Shape) String() string {
	return fmt.Sprintf("[%d, %d]", s.Rows, s.Cols)
}

// Fingerprint is the structural fingerprint of a tabular dataset:
// per-column stats in the dataset's native column order, plus overall shape.
type Fingerprint struct {
	Columns ColumnSet `json:"columns"`
	Shape   Shape     `json:"shape"`
}

// Equal reports whether two fingerprints are structurally identical,
// including null counts. Column order is not significant.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f.Shape != other.Shape {
		return false
	}
	if f.Columns.Len() != other.Columns.Len() {
		return false
	}
	for _, name := range f.Columns.Names() {
		a, _ := f.Columns.Get(name)
		b, ok := other.Columns.Get(name)
		if !ok || a != b {
			return false
		}
	}
	return true
}
