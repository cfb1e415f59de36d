// Package dataset holds the single CSV table a conversation can query and chart.
package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ColumnKind tells whether a column holds numbers or text.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
)

func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Column is one homogeneous column of a Dataset.
type Column struct {
	Name    string
	Kind    ColumnKind
	raw     []string
	nums    []float64
	missing []bool
}

// Len returns the number of cells (equal to the dataset row count).
func (c *Column) Len() int {
	return len(c.raw)
}

// IsNumeric reports whether every non-missing cell is a number.
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsMissing reports whether row i has no value.
func (c *Column) IsMissing(i int) bool {
	return c.missing[i]
}

// Text returns the cell as it appeared in the source.
func (c *Column) Text(i int) string {
	return c.raw[i]
}

// Float returns the numeric value of row i. ok is false for missing cells and
// for text columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != KindNumeric || c.missing[i] {
		return 0, false
	}
	return c.nums[i], true
}

// NumericValues returns all present values of a numeric column, in row order.
func (c *Column) NumericValues() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an immutable in-memory table.
type Dataset struct {
	name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// Name returns the display label (file name or last URL segment).
func (d *Dataset) Name() string {
	return d.name
}

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// HasColumn reports whether name is a column of d.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// Head returns up to n rows as source text, in column order.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := range out {
		row := make([]string, len(d.columns))
		for j, c := range d.columns {
			row[j] = c.raw[i]
		}
		out[i] = row
	}
	return out
}

// Summary describes a dataset for confirmation messages and prompts.
type Summary struct {
	Name        string   `json:"name"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	ColumnNames []string `json:"column_names"`
}

// Describe returns the dataset summary.
func (d *Dataset) Describe() Summary {
	return Summary{
		Name:        d.name,
		RowCount:    d.rows,
		ColumnCount: len(d.columns),
		ColumnNames: d.Columns(),
	}
}

// missingMarkers are the cell values read as "no value".
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-nan": true,
	"-NaN": true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"#NA":  true,
	"<NA>": true,
}

func isMissing(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// newColumn infers the column kind from its cells.
func newColumn(name string, cells []string) *Column {
	c := &Column{
		Name:    name,
		Kind:    KindNumeric,
		raw:     cells,
		nums:    make([]float64, len(cells)),
		missing: make([]bool, len(cells)),
	}
	for i, cell := range cells {
		if isMissing(cell) {
			c.missing[i] = true
			continue
		}
		if c.Kind != KindNumeric {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) {
			c.Kind = KindText
			continue
		}
		c.nums[i] = v
	}
	if c.Kind == KindText {
		c.nums = nil
	}
	return c
}
