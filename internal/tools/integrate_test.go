package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/plasticlab/niasflow/internal/table"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestWriteJoinKeyFile(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO", "N/A", "c1ccccc1")

	path, err := writeJoinKeyFile(pc, "classyfire", "input.csv", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	// Missing identifiers are not fed to external tools.
	want := "CCO\nc1ccccc1\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

func TestWriteJoinKeyFileRequiresProjection(t *testing.T) {
	pc := newToolContext(t, "")
	if _, err := writeJoinKeyFile(pc, "classyfire", "input.csv", false); err == nil {
		t.Fatal("expected error without projection")
	}
}

func TestClassyfireIntegrate(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO", "c1ccccc1")
	path := writeFile(t, pc.Settings.OutputFolder, "classyfire_results.tsv",
		"smiles\tsubclass\tclass\tsuperclass\n"+
			"CCO\tPrimary alcohols\tAlcohols and polyols\tOrganooxygen compounds\n"+
			"CCC\tunmatched\tunmatched\tunmatched\n")
	pc.Settings.SetPath("classyfire_output", path)

	tool := &classyfire{opts: &Options{}}
	if err := tool.Integrate(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, ok := pc.Projection.Row("f1")
	if !ok {
		t.Fatal("row f1 missing")
	}
	if got := row.Value("CF:class"); got != "Alcohols and polyols" {
		t.Fatalf("CF:class = %q", got)
	}
	// The unmatched projection row carries the missing sentinel.
	row2, _ := pc.Projection.Row("f2")
	if got := row2.Value("CF:class"); got != table.Missing {
		t.Fatalf("unmatched CF:class = %q", got)
	}
}

func TestPlastchemdbIntegrateSkipsCitationLine(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO")
	path := writeFile(t, pc.Settings.OutputFolder, "plastchem.tsv",
		"# PlastChem database v1.0, cite as doi:10.0000/example\n"+
			"SMILES\tname\thazard\n"+
			"CCO\tethanol\tlow\n")
	pc.Settings.SetPath("plastchem_path", path)

	tool := &plastchemdb{}
	if err := tool.Integrate(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, _ := pc.Projection.Row("f1")
	if got := row.Value("name"); got != "ethanol" {
		t.Fatalf("name = %q", got)
	}
	if got := row.Value("hazard"); got != "low" {
		t.Fatalf("hazard = %q", got)
	}
}

func TestMzmineIntegrateJoinsOnNodeID(t *testing.T) {
	pc := newToolContext(t, "")
	newProjection(pc, "CCO", "c1ccccc1")
	path := writeFile(t, pc.Settings.OutputFolder, "quant.csv",
		"row ID,row m/z,row retention time\n"+
			"f1,123.4,5.6\n"+
			"f2,456.7,8.9\n")
	pc.Settings.SetPath("quant_table", path)

	tool := &mzmine{opts: &Options{}}
	if err := tool.Integrate(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, _ := pc.Projection.Row("f2")
	if got := row.Value("row m/z"); got != "456.7" {
		t.Fatalf("row m/z = %q", got)
	}
}

func TestMergeRecordHonorsSchemaTranslations(t *testing.T) {
	pc := newToolContext(t, `{
		"classyfire": {
			"integration": {
				"translations": {
					"join": {"record": "structure"},
					"columns": {"klass": "CF:class"}
				}
			}
		}
	}`)
	newProjection(pc, "CCO")
	path := writeFile(t, pc.Settings.OutputFolder, "classyfire_results.tsv",
		"structure\tklass\nCCO\tAlcohols and polyols\n")
	pc.Settings.SetPath("classyfire_output", path)

	tool := &classyfire{opts: &Options{}}
	if err := tool.Integrate(context.Background(), pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, _ := pc.Projection.Row("f1")
	if got := row.Value("CF:class"); got != "Alcohols and polyols" {
		t.Fatalf("CF:class = %q", got)
	}
}
