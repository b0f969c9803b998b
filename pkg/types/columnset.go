package types

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// ColumnSet is an ordered mapping of column name to ColumnStat.
// Order follows the dataset's native column order and is preserved through
// JSON round-trips; lookups by name are order-independent.
type ColumnSet struct {
	names []string
	stats map[string]ColumnStat
}

// NewColumnSet returns an empty column set.
func NewColumnSet() ColumnSet {
	return ColumnSet{stats: make(map[string]ColumnStat)}
}

// Add appends a column, or overwrites its stat in place if the name exists.
func (c *ColumnSet) Add(name string, stat ColumnStat) {
	if c.stats == nil {
		c.stats = make(map[string]ColumnStat)
	}
	if _, ok := c.stats[name]; !ok {
		c.names = append(c.names, name)
	}
	c.stats[name] = stat
}

// Get returns the stat for a column name.
func (c ColumnSet) Get(name string) (ColumnStat, bool) {
	stat, ok := c.stats[name]
	return stat, ok
}

// Has reports whether the column is present.
func (c ColumnSet) Has(name string) bool {
	_, ok := c.stats[name]
	return ok
}

// Names returns the column names in dataset order.
// The returned slice must not be mutated.
func (c ColumnSet) Names() []string {
	return c.names
}

// Len returns the number of columns.
func (c ColumnSet) Len() int {
	return len(c.names)
}

// MarshalJSON encodes the set as a JSON object with keys in column order.
func (c ColumnSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.stats[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (c *ColumnSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("columns must be a JSON object")
	}

	c.names = nil
	c.stats = make(map[string]ColumnStat)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid column name token %v", tok)
		}
		var stat ColumnStat
		if err := dec.Decode(&stat); err != nil {
			return fmt.Errorf("invalid stat for column %q: %w", name, err)
		}
		c.Add(name, stat)
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
