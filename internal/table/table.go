// Package table implements the tabular projection the pipeline integrates
// tool outputs into: one row per network node, string-valued cells, and a
// single canonical missing-value sentinel.
package table

import (
	"github.com/plasticlab/niasflow/internal/graph"
)

// Missing is the canonical sentinel for absent values. Tool outputs and
// upstream artifacts carry a zoo of null markers; everything is folded into
// this one token before serialization.
const Missing = "N/A"

// IsMissing reports whether a raw value is any known null marker.
func IsMissing(v string) bool {
	switch v {
	case "", Missing, "None", "none", "nan", "NaN", "null", "<nil>":
		return true
	}
	return false
}

// Normalize maps any null marker to the canonical Missing sentinel.
func Normalize(v string) string {
	if IsMissing(v) {
		return Missing
	}
	return v
}

// Row is one table row, keyed by the owning table's row ID.
type Row struct {
	id    string
	table *Table
	cells map[string]string
}

// ID returns the row identifier.
func (r *Row) ID() string {
	return r.id
}

// Get returns the raw cell value and whether it is present.
func (r *Row) Get(col string) (string, bool) {
	v, ok := r.cells[col]
	return v, ok
}

// Value returns the normalized cell value, Missing if the cell is absent.
func (r *Row) Value(col string) string {
	v, ok := r.cells[col]
	if !ok {
		return Missing
	}
	return Normalize(v)
}

// Set writes a cell, registering the column on the table.
func (r *Row) Set(col, value string) {
	r.table.registerColumn(col)
	r.cells[col] = value
}

// Table is an ordered collection of rows with a shared column set.
type Table struct {
	cols   []string
	colSet map[string]bool
	rows   []*Row
	index  map[string]*Row
}

// New creates an empty table.
func New() *Table {
	return &Table{
		colSet: make(map[string]bool),
		index:  make(map[string]*Row),
	}
}

// AddRow appends a row with the given ID, or returns the existing one.
func (t *Table) AddRow(id string) *Row {
	if row, ok := t.index[id]; ok {
		return row
	}
	row := &Row{id: id, table: t, cells: make(map[string]string)}
	t.rows = append(t.rows, row)
	t.index[id] = row
	return row
}

// Row returns the row with the given ID.
func (t *Table) Row(id string) (*Row, bool) {
	row, ok := t.index[id]
	return row, ok
}

// Rows returns all rows in insertion order.
func (t *Table) Rows() []*Row {
	out := make([]*Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the column names in registration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// HasColumn reports whether a column has been registered.
func (t *Table) HasColumn(col string) bool {
	return t.colSet[col]
}

func (t *Table) registerColumn(col string) {
	if t.colSet[col] {
		return
	}
	t.colSet[col] = true
	t.cols = append(t.cols, col)
}

// FromGraph flattens a graph into a table: one row per node, node
// attributes become cells. Row IDs are node IDs.
func FromGraph(g *graph.Graph) *Table {
	t := New()
	for _, id := range g.Nodes() {
		row := t.AddRow(id)
		for key, value := range g.NodeAttrs(id) {
			row.Set(key, value)
		}
	}
	return t
}
