package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVOption configures CSV ingestion.
type CSVOption func(*csvOptions)

type csvOptions struct {
	inferTypes bool
	comma      rune
}

// WithoutTypeInference keeps every CSV column as a string column.
func WithoutTypeInference() CSVOption {
	return func(o *csvOptions) { o.inferTypes = false }
}

// WithComma sets the field delimiter.
func WithComma(c rune) CSVOption {
	return func(o *csvOptions) { o.comma = c }
}

// FromCSV reads a CSV document with a header row into a frame.
// Empty cells become nulls. With type inference enabled (the default), a
// column whose non-empty cells all parse as int64, float64, or bool gets
// that dtype; everything else is a string column.
func FromCSV(r io.Reader, opts ...CSVOption) (*Frame, error) {
	options := csvOptions{inferTypes: true, comma: ','}
	for _, opt := range opts {
		opt(&options)
	}

	reader := csv.NewReader(r)
	reader.Comma = options.comma

	header, err := reader.Read()
	if err == io.EOF {
		return New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cells := make([][]string, len(header))
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", rows+1, err)
		}
		for i := range header {
			cells[i] = append(cells[i], record[i])
		}
		rows++
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = buildCSVColumn(name, cells[i], options.inferTypes)
	}
	return New(cols...)
}

func buildCSVColumn(name string, cells []string, infer bool) Column {
	if infer {
		if col, ok := parseTyped(name, cells); ok {
			return col
		}
	}

	data := make([]any, len(cells))
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		data[i] = cell
	}
	return Column{name: name, dtype: String, data: data}
}

// parseTyped attempts int64, then float64, then bool for the whole column.
// Empty cells are nulls and do not veto a typed parse, but a column with no
// non-empty cells stays a string column.
func parseTyped(name string, cells []string) (Column, bool) {
	nonEmpty := 0
	for _, cell := range cells {
		if cell != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return Column{}, false
	}

	parsers := []struct {
		dtype DType
		parse func(string) (any, error)
	}{
		{Int64, func(s string) (any, error) { return strconv.ParseInt(s, 10, 64) }},
		{Float64, func(s string) (any, error) { return strconv.ParseFloat(s, 64) }},
		{Bool, func(s string) (any, error) { return strconv.ParseBool(s) }},
	}

	for _, p := range parsers {
		data := make([]any, len(cells))
		ok := true
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			v, err := p.parse(cell)
			if err != nil {
				ok = false
				break
			}
			data[i] = v
		}
		if ok {
			return Column{name: name, dtype: p.dtype, data: data}, true
		}
	}
	return Column{}, false
}
