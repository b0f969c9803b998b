package frame

import (
	"sort"
	"time"
)

// FromRecords builds a frame from row-oriented records. Column order is
// sorted by name (Go maps carry no insertion order). Per-column dtypes are
// inferred from the observed values; a missing or nil value is a null.
func FromRecords(records []map[string]any) (*Frame, error) {
	var names []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	cols := make([]Column, 0, len(names))
	for _, name := range names {
		data := make([]any, len(records))
		for i, rec := range records {
			v, ok := rec[name]
			if !ok || isNull(v) {
				continue
			}
			data[i] = normalize(v)
		}
		dtype := inferDType(data)
		if dtype == Float64 {
			for i, v := range data {
				if n, ok := v.(int64); ok {
					data[i] = float64(n)
				}
			}
		}
		cols = append(cols, Column{name: name, dtype: dtype, data: data})
	}
	return New(cols...)
}

// normalize widens numeric values to the frame's canonical representations.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// inferDType picks the narrowest label covering all non-null values.
// Mixed ints and floats widen to float64; any other mix is object.
// A column with no non-null values is object.
func inferDType(data []any) DType {
	var found DType
	sawInt, sawFloat := false, false

	for _, v := range data {
		if v == nil {
			continue
		}
		var d DType
		switch v.(type) {
		case int64:
			d = Int64
			sawInt = true
		case float64:
			d = Float64
			sawFloat = true
		case string:
			d = String
		case bool:
			d = Bool
		case time.Time:
			d = Datetime
		default:
			return Object
		}
		if found == "" {
			found = d
		} else if found != d {
			if sawInt && sawFloat && (d == Int64 || d == Float64) && (found == Int64 || found == Float64) {
				found = Float64
				continue
			}
			return Object
		}
	}

	if found == "" {
		return Object
	}
	return found
}
