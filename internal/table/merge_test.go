package table

import (
	"errors"
	"testing"
)

func projectionFixture() *Table {
	t := New()
	r1 := t.AddRow("f1")
	r1.Set("smiles", "CCO")
	r1.Set("mz", "46.07")
	r2 := t.AddRow("f2")
	r2.Set("smiles", "c1ccccc1")
	r2.Set("mz", "78.11")
	r3 := t.AddRow("f3")
	r3.Set("smiles", "")
	r3.Set("mz", "100.00")
	return t
}

func recordFixture() Record {
	rec := New()
	row := rec.AddRow("0")
	row.Set("canonical_smiles", "CCO")
	row.Set("cramer_class", "I")
	row = rec.AddRow("1")
	row.Set("canonical_smiles", "CC(=O)O")
	row.Set("cramer_class", "III")
	return Record{
		Table:     rec,
		JoinKey:   "canonical_smiles",
		TargetKey: "smiles",
		Columns:   map[string]string{"cramer_class": "toxtree:cramer_class"},
	}
}

func TestMerge_LeftOuterJoin(t *testing.T) {
	proj := projectionFixture()
	if err := Merge(proj, recordFixture()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r1, _ := proj.Row("f1")
	if r1.Value("toxtree:cramer_class") != "I" {
		t.Fatalf("expected matched row annotated, got %q", r1.Value("toxtree:cramer_class"))
	}

	// Unmatched projection rows keep prior cells and gain nothing.
	r2, _ := proj.Row("f2")
	if _, ok := r2.Get("toxtree:cramer_class"); ok {
		t.Fatal("expected unmatched row untouched")
	}
	if r2.Value("mz") != "78.11" {
		t.Fatal("expected prior attributes retained")
	}

	// Record rows without a projection match never create rows.
	if proj.Len() != 3 {
		t.Fatalf("expected row count unchanged, got %d", proj.Len())
	}
}

func TestMerge_SkipsMissingJoinValues(t *testing.T) {
	proj := projectionFixture()
	rec := New()
	row := rec.AddRow("0")
	row.Set("canonical_smiles", "")
	row.Set("cramer_class", "II")
	err := Merge(proj, Record{
		Table:     rec,
		JoinKey:   "canonical_smiles",
		TargetKey: "smiles",
		Columns:   map[string]string{"cramer_class": "toxtree:cramer_class"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The f3 row has a missing smiles value; a missing-keyed record row must
	// not join against it.
	r3, _ := proj.Row("f3")
	if _, ok := r3.Get("toxtree:cramer_class"); ok {
		t.Fatal("expected missing join values excluded from matching")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	proj := projectionFixture()
	if err := Merge(proj, recordFixture()); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	first := snapshot(proj)
	if err := Merge(proj, recordFixture()); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	second := snapshot(proj)
	for id, cells := range first {
		for col, v := range cells {
			if second[id][col] != v {
				t.Fatalf("merge not idempotent: %s.%s changed %q -> %q", id, col, v, second[id][col])
			}
		}
	}
}

func TestMerge_JoinOnRowID(t *testing.T) {
	proj := projectionFixture()
	rec := New()
	row := rec.AddRow("0")
	row.Set("feature_id", "f2")
	row.Set("motif", "motif_12")
	err := Merge(proj, Record{
		Table:   rec,
		JoinKey: "feature_id",
		Columns: map[string]string{"motif": "ms2lda:motif"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, _ := proj.Row("f2")
	if r2.Value("ms2lda:motif") != "motif_12" {
		t.Fatal("expected row-ID join to annotate f2")
	}
}

func TestMerge_MissingJoinColumn(t *testing.T) {
	proj := projectionFixture()
	rec := recordFixture()
	rec.JoinKey = "nonexistent"
	err := Merge(proj, rec)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "nonexistent" {
		t.Fatalf("expected error naming the column, got %q", missing.Column)
	}
}

func TestMerge_FirstRecordRowWins(t *testing.T) {
	proj := projectionFixture()
	rec := New()
	a := rec.AddRow("0")
	a.Set("canonical_smiles", "CCO")
	a.Set("cramer_class", "I")
	b := rec.AddRow("1")
	b.Set("canonical_smiles", "CCO")
	b.Set("cramer_class", "III")
	err := Merge(proj, Record{
		Table:     rec,
		JoinKey:   "canonical_smiles",
		TargetKey: "smiles",
		Columns:   map[string]string{"cramer_class": "toxtree:cramer_class"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1, _ := proj.Row("f1")
	if r1.Value("toxtree:cramer_class") != "I" {
		t.Fatal("expected first record row to win on duplicate keys")
	}
}

func snapshot(t *Table) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, row := range t.Rows() {
		cells := make(map[string]string)
		for _, col := range t.Columns() {
			if v, ok := row.Get(col); ok {
				cells[col] = v
			}
		}
		out[row.ID()] = cells
	}
	return out
}
