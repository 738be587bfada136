package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plasticlab/niasflow/internal/core"
)

func minimalRaw() map[string]any {
	return map[string]any{
		"paths": map[string]any{
			"base_output_folder": "/tmp/out",
			"internal_settings":  "/tmp/internal.json",
		},
		"run_tools":       map[string]any{"mzmine": "True"},
		"integrate_tools": map[string]any{"mzmine": "True"},
	}
}

func TestParseDocument_Minimal(t *testing.T) {
	doc, err := ParseDocument(minimalRaw())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.RunTools["mzmine"] {
		t.Fatal("expected string-boolean flag converted to native bool")
	}
}

func TestParseDocument_MissingSection(t *testing.T) {
	raw := minimalRaw()
	delete(raw, "integrate_tools")
	_, err := ParseDocument(raw)
	if err == nil {
		t.Fatal("expected error for missing section")
	}
	if !core.IsCategory(err, core.ErrCatConfiguration) {
		t.Fatalf("expected configuration category, got %v", err)
	}
	if !strings.Contains(err.Error(), "integrate_tools") {
		t.Fatalf("expected error to list the missing key, got %q", err.Error())
	}
}

func TestParseDocument_MissingRequiredPath(t *testing.T) {
	raw := minimalRaw()
	raw["paths"] = map[string]any{"base_output_folder": "/tmp/out"}
	_, err := ParseDocument(raw)
	if err == nil {
		t.Fatal("expected error for missing paths key")
	}
	if !strings.Contains(err.Error(), "internal_settings") {
		t.Fatalf("expected error to list internal_settings, got %q", err.Error())
	}
}

func TestParseDocument_ToolBlocks(t *testing.T) {
	raw := minimalRaw()
	raw["sirius"] = map[string]any{"instrument": "orbitrap", "formula_db": "PUBCHEM"}
	doc, err := ParseDocument(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ToolParams["sirius"]["instrument"] != "orbitrap" {
		t.Fatalf("expected tool block preserved, got %v", doc.ToolParams["sirius"])
	}
}

func TestParseDocument_FlagVariants(t *testing.T) {
	raw := minimalRaw()
	raw["run_tools"] = map[string]any{
		"mzmine":  "True",
		"sirius":  true,
		"toxtree": "False",
		"ms2lda":  "yes",
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.RunTools["mzmine"] || !doc.RunTools["sirius"] {
		t.Fatal("expected True/true accepted")
	}
	if doc.RunTools["toxtree"] || doc.RunTools["ms2lda"] {
		t.Fatal("expected anything but True rejected")
	}
}

func TestSelected_IgnoresUnknownTools(t *testing.T) {
	flags := map[string]bool{"mzmine": true, "not_a_tool": true}
	selected := Selected(core.RunCatalog(), flags)
	if len(selected) != 1 || selected[0] != core.ToolMzmine {
		t.Fatalf("expected only catalog tools selected, got %v", selected)
	}
}

func TestLoadDocument_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	content := `{
		"paths": {"base_output_folder": "` + dir + `", "internal_settings": "x.json"},
		"run_tools": {"matchms": "True"},
		"integrate_tools": {}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.RunTools["matchms"] {
		t.Fatal("expected matchms selected")
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "gone.json"))
	var domErr *core.DomainError
	if !errors.As(err, &domErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
}
