package tools

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/plasticlab/niasflow/internal/table"
)

func writeAnnotationDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "motif_annotations.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE motif_annotations (
			feature_id TEXT NOT NULL,
			motif_id TEXT NOT NULL,
			annotation TEXT,
			probability REAL
		)`,
		`INSERT INTO motif_annotations VALUES ('f1', 'motif_12', 'phthalate fragment', 0.92)`,
		`INSERT INTO motif_annotations VALUES ('f2', 'motif_3', NULL, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("executing %q: %v", stmt, err)
		}
	}
	return path
}

func TestMS2LDAIntegrate(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO", "c1ccccc1")
	pc.Settings.SetPath("ms2lda_results_db", writeAnnotationDB(t, pc.Settings.OutputFolder))

	tool := &ms2lda{opts: &Options{}}
	if err := tool.Integrate(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, _ := pc.Projection.Row("f1")
	if got := row.Value("ms2lda:motif"); got != "motif_12" {
		t.Fatalf("ms2lda:motif = %q", got)
	}
	if got := row.Value("ms2lda:probability"); got != "0.92" {
		t.Fatalf("ms2lda:probability = %q", got)
	}
	// NULL columns land as the missing sentinel.
	row2, _ := pc.Projection.Row("f2")
	if got := row2.Value("ms2lda:annotation"); got != table.Missing {
		t.Fatalf("ms2lda:annotation = %q", got)
	}
}

func TestMS2LDAIntegrateEmptyDB(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO")
	path := filepath.Join(pc.Settings.OutputFolder, "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE motif_annotations (
		feature_id TEXT, motif_id TEXT, annotation TEXT, probability REAL)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	db.Close()
	pc.Settings.SetPath("ms2lda_results_db", path)

	tool := &ms2lda{opts: &Options{}}
	if err := tool.Integrate(context.Background(), pc); err == nil {
		t.Fatal("expected error for empty annotation database")
	}
}
