package table

import "fmt"

// MissingColumnError indicates a declared join or selection column is absent
// from one of the tables participating in a merge.
type MissingColumnError struct {
	Column string
	Side   string // "record" or "target"
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not present in %s table", e.Column, e.Side)
}

// Record is a tool's output table plus its join specification. Records are
// created fresh per integration and consumed immediately by Merge.
type Record struct {
	// Table holds the tool's tabular output.
	Table *Table
	// JoinKey is the join column in the record table.
	JoinKey string
	// TargetKey is the join column in the target projection. Empty means
	// join directly on the target's row IDs.
	TargetKey string
	// Columns maps record columns to target columns. Empty means carry
	// every record column (except the join key) under its own name.
	Columns map[string]string
}

// Merge folds a record into the target as a left-outer join: target rows
// with no matching record key keep their prior cells untouched, record rows
// with no matching target key are dropped and never create rows. Join
// matching considers only non-missing key values on both sides. Merging the
// same record twice is idempotent: matched cells are assigned, not
// accumulated.
func Merge(target *Table, rec Record) error {
	if rec.Table == nil {
		return fmt.Errorf("record has no table")
	}
	if rec.JoinKey == "" {
		return fmt.Errorf("record has no join key")
	}
	if !rec.Table.HasColumn(rec.JoinKey) {
		return &MissingColumnError{Column: rec.JoinKey, Side: "record"}
	}
	if rec.TargetKey != "" && !target.HasColumn(rec.TargetKey) {
		return &MissingColumnError{Column: rec.TargetKey, Side: "target"}
	}

	columns := rec.Columns
	if len(columns) == 0 {
		columns = make(map[string]string)
		for _, col := range rec.Table.Columns() {
			if col == rec.JoinKey {
				continue
			}
			columns[col] = col
		}
	}

	// First record row wins per key.
	byKey := make(map[string]*Row, rec.Table.Len())
	for _, row := range rec.Table.Rows() {
		key := row.Value(rec.JoinKey)
		if key == Missing {
			continue
		}
		if _, ok := byKey[key]; !ok {
			byKey[key] = row
		}
	}

	for _, row := range target.Rows() {
		key := row.ID()
		if rec.TargetKey != "" {
			key = row.Value(rec.TargetKey)
		}
		if key == Missing {
			continue
		}
		recRow, ok := byKey[key]
		if !ok {
			continue
		}
		for src, dst := range columns {
			row.Set(dst, recRow.Value(src))
		}
	}
	return nil
}
