package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type identifies the underlying storage of a column.
type Type int

const (
	// TypeNumeric stores float64 values
	TypeNumeric Type = iota
	// TypeText stores string values
	TypeText
	// TypeTime stores time.Time values
	TypeTime
)

// String returns the string representation of the type
func (t Type) String() string {
	switch t {
	case TypeNumeric:
		return "numeric"
	case TypeText:
		return "text"
	case TypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// Column is a homogeneous, positionally indexed sequence of values with a
// null mask. Columns are immutable once part of a Dataset.
type Column struct {
	name  string
	typ   Type
	nums  []float64
	strs  []string
	times []time.Time
	null  []bool
}

// NewNumericColumn creates a numeric column. A nil null mask means no
// missing values.
func NewNumericColumn(name string, values []float64, null []bool) Column {
	return Column{name: name, typ: TypeNumeric, nums: values, null: normalizeMask(null, len(values))}
}

// NewTextColumn creates a text column. A nil null mask means no missing values.
func NewTextColumn(name string, values []string, null []bool) Column {
	return Column{name: name, typ: TypeText, strs: values, null: normalizeMask(null, len(values))}
}

// NewTimeColumn creates a temporal column. A nil null mask means no missing
// values.
func NewTimeColumn(name string, values []time.Time, null []bool) Column {
	return Column{name: name, typ: TypeTime, times: values, null: normalizeMask(null, len(values))}
}

func normalizeMask(null []bool, n int) []bool {
	if null == nil {
		return make([]bool, n)
	}
	return null
}

// Name returns the column name
func (c Column) Name() string { return c.name }

// Type returns the column storage type
func (c Column) Type() Type { return c.typ }

// Len returns the number of rows in the column
func (c Column) Len() int {
	switch c.typ {
	case TypeNumeric:
		return len(c.nums)
	case TypeTime:
		return len(c.times)
	default:
		return len(c.strs)
	}
}

// IsNull reports whether the value at row i is missing
func (c Column) IsNull(i int) bool { return c.null[i] }

// MissingCount returns the number of missing values in the column
func (c Column) MissingCount() int {
	count := 0
	for _, n := range c.null {
		if n {
			count++
		}
	}
	return count
}

// Float returns the numeric value at row i. The second return is false when
// the column is not numeric or the value is missing.
func (c Column) Float(i int) (float64, bool) {
	if c.typ != TypeNumeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// String returns the text value at row i. The second return is false when
// the column is not text or the value is missing.
func (c Column) String(i int) (string, bool) {
	if c.typ != TypeText || c.null[i] {
		return "", false
	}
	return c.strs[i], true
}

// Time returns the temporal value at row i. The second return is false when
// the column is not temporal or the value is missing.
func (c Column) Time(i int) (time.Time, bool) {
	if c.typ != TypeTime || c.null[i] {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Value returns the native value at row i (float64, string or a formatted
// timestamp), or nil for missing values. Used for JSON-shaped output.
func (c Column) Value(i int) any {
	if c.null[i] {
		return nil
	}
	switch c.typ {
	case TypeNumeric:
		return c.nums[i]
	case TypeTime:
		return c.times[i].Format(time.RFC3339)
	default:
		return c.strs[i]
	}
}

// Render returns the value at row i formatted as a string, or "" for
// missing values. Used for row comparison and export.
func (c Column) Render(i int) string {
	if c.null[i] {
		return ""
	}
	switch c.typ {
	case TypeNumeric:
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	case TypeTime:
		return c.times[i].Format(time.RFC3339)
	default:
		return c.strs[i]
	}
}

// Dataset is an immutable-for-analysis table of named columns sharing one
// ordered row index. All columns have equal length. The Dataset is owned by
// the caller; analysis engines never mutate it.
type Dataset struct {
	columns []Column
	byName  map[string]int
	rows    int
}

// New creates a Dataset from the given columns. All columns must have
// distinct names and equal lengths.
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: columns,
		byName:  make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, exists := ds.byName[col.name]; exists {
			return nil, fmt.Errorf("duplicate column name: %s", col.name)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", col.name, col.Len(), ds.rows)
		}
		ds.byName[col.name] = i
	}
	return ds, nil
}

// Len returns the number of rows
func (ds *Dataset) Len() int { return ds.rows }

// NumColumns returns the number of columns
func (ds *Dataset) NumColumns() int { return len(ds.columns) }

// Columns returns the column names in their original order
func (ds *Dataset) Columns() []string {
	names := make([]string, len(ds.columns))
	for i, col := range ds.columns {
		names[i] = col.name
	}
	return names
}

// Column returns the named column. The second return is false when the
// column does not exist.
func (ds *Dataset) Column(name string) (Column, bool) {
	idx, ok := ds.byName[name]
	if !ok {
		return Column{}, false
	}
	return ds.columns[idx], true
}

// HasColumn reports whether the named column exists
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.byName[name]
	return ok
}

// NumericColumns returns names of columns with numeric storage, in original
// column order.
func (ds *Dataset) NumericColumns() []string {
	var names []string
	for _, col := range ds.columns {
		if col.typ == TypeNumeric {
			names = append(names, col.name)
		}
	}
	return names
}

// RowKey renders row i as a single comparable string across all columns.
// Two rows with identical values (including missing positions) produce the
// same key.
func (ds *Dataset) RowKey(i int) string {
	var b strings.Builder
	for j, col := range ds.columns {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		if col.null[i] {
			b.WriteByte(0x00)
		} else {
			b.WriteString(col.Render(i))
		}
	}
	return b.String()
}

// Select returns a new Dataset containing only the named columns, in the
// given order. Column data is shared, not copied.
func (ds *Dataset) Select(names []string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := ds.Column(name)
		if !ok {
			return nil, fmt.Errorf("column not found: %s", name)
		}
		cols = append(cols, col)
	}
	return New(cols...)
}
