package frame

import (
	"math"
	"time"
)

// DType is the logical type label of a column. The same label set is used
// for extraction and comparison, so drift detection is symmetric.
type DType string

const (
	Int64    DType = "int64"
	Float64  DType = "float64"
	String   DType = "string"
	Bool     DType = "bool"
	Datetime DType = "datetime"
	Object   DType = "object"
)

// Column is a single named, typed column. Missing entries are tracked
// internally and reported through NullCount.
type Column struct {
	name  string
	dtype DType
	data  []any // nil entries are nulls
}

// Ints builds an int64 column.
func Ints(name string, values ...int64) Column {
	data := make([]any, len(values))
	for i, v := range values {
		data[i] = v
	}
	return Column{name: name, dtype: Int64, data: data}
}

// Floats builds a float64 column. NaN values count as nulls.
func Floats(name string, values ...float64) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		data[i] = v
	}
	return Column{name: name, dtype: Float64, data: data}
}

// Strings builds a string column.
func Strings(name string, values ...string) Column {
	data := make([]any, len(values))
	for i, v := range values {
		data[i] = v
	}
	return Column{name: name, dtype: String, data: data}
}

// Bools builds a bool column.
func Bools(name string, values ...bool) Column {
	data := make([]any, len(values))
	for i, v := range values {
		data[i] = v
	}
	return Column{name: name, dtype: Bool, data: data}
}

// Times builds a datetime column. Zero times count as nulls.
func Times(name string, values ...time.Time) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if v.IsZero() {
			continue
		}
		data[i] = v
	}
	return Column{name: name, dtype: Datetime, data: data}
}

// NullableInts builds an int64 column where nil entries are nulls.
func NullableInts(name string, values ...*int64) Column {
	return nullable(name, Int64, values)
}

// NullableFloats builds a float64 column where nil entries are nulls.
// NaN values also count as nulls.
func NullableFloats(name string, values ...*float64) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		data[i] = *v
	}
	return Column{name: name, dtype: Float64, data: data}
}

// NullableStrings builds a string column where nil entries are nulls.
func NullableStrings(name string, values ...*string) Column {
	return nullable(name, String, values)
}

// NullableBools builds a bool column where nil entries are nulls.
func NullableBools(name string, values ...*bool) Column {
	return nullable(name, Bool, values)
}

// NullableTimes builds a datetime column where nil entries are nulls.
// Zero times also count as nulls.
func NullableTimes(name string, values ...*time.Time) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if v == nil || v.IsZero() {
			continue
		}
		data[i] = *v
	}
	return Column{name: name, dtype: Datetime, data: data}
}

func nullable[T any](name string, dtype DType, values []*T) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		data[i] = *v
	}
	return Column{name: name, dtype: dtype, data: data}
}

// Objects builds an object column from arbitrary values.
// Nil entries and NaN floats count as nulls.
func Objects(name string, values ...any) Column {
	data := make([]any, len(values))
	for i, v := range values {
		if isNull(v) {
			continue
		}
		data[i] = v
	}
	return Column{name: name, dtype: Object, data: data}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the column's logical type label.
func (c Column) Type() DType { return c.dtype }

// Len returns the number of entries including nulls.
func (c Column) Len() int { return len(c.data) }

// NullCount returns the number of missing entries.
func (c Column) NullCount() int {
	n := 0
	for _, v := range c.data {
		if v == nil {
			n++
		}
	}
	return n
}

// Value returns the entry at index i and whether it is present (non-null).
func (c Column) Value(i int) (any, bool) {
	v := c.data[i]
	return v, v != nil
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}
