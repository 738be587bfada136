// Package config loads and validates the pipeline configuration document
// and the requirement schema it references.
package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/plasticlab/niasflow/internal/core"
)

// Top-level sections every configuration document must carry.
var requiredSections = []string{"paths", "run_tools", "integrate_tools"}

// Keys every paths section must carry.
var requiredPaths = []string{"base_output_folder", "internal_settings"}

// Document is the parsed configuration document: resource locations, tool
// selection flags and per-tool parameter blocks.
type Document struct {
	Paths          map[string]string
	RunTools       map[string]bool
	IntegrateTools map[string]bool
	ToolParams     map[string]map[string]any
}

// LoadDocument reads a configuration document from a JSON or YAML file.
func LoadDocument(path string) (*Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, core.ErrConfiguration("READ_FAILED",
			fmt.Sprintf("reading configuration document %s", path)).WithCause(err)
	}
	return parseDocument(v.AllSettings())
}

// ParseDocument builds a Document from an already-decoded settings map.
func ParseDocument(raw map[string]any) (*Document, error) {
	return parseDocument(raw)
}

func parseDocument(raw map[string]any) (*Document, error) {
	if missing := missingKeys(raw, requiredSections); len(missing) > 0 {
		return nil, core.ErrMissingKeys("settings", missing)
	}

	paths := toStringMap(raw["paths"])
	if missing := missingStringKeys(paths, requiredPaths); len(missing) > 0 {
		return nil, core.ErrMissingKeys("paths", missing)
	}

	doc := &Document{
		Paths:          paths,
		RunTools:       parseToolFlags(raw["run_tools"]),
		IntegrateTools: parseToolFlags(raw["integrate_tools"]),
		ToolParams:     make(map[string]map[string]any),
	}
	for key, value := range raw {
		switch key {
		case "paths", "run_tools", "integrate_tools":
			continue
		}
		if block, ok := value.(map[string]any); ok {
			doc.ToolParams[key] = block
		}
	}
	return doc, nil
}

// parseToolFlags converts the document's string-boolean convention ("True")
// to native booleans at the parsing boundary. Plain JSON booleans are also
// accepted.
func parseToolFlags(raw any) map[string]bool {
	flags := make(map[string]bool)
	m, ok := raw.(map[string]any)
	if !ok {
		return flags
	}
	for tool, value := range m {
		switch v := value.(type) {
		case bool:
			flags[tool] = v
		case string:
			flags[tool] = v == "True" || v == "true"
		}
	}
	return flags
}

// Selected filters a catalog down to the tools flagged in a selection
// section. Identifiers outside the catalog are ignored.
func Selected(catalog []core.ToolID, flags map[string]bool) []core.ToolID {
	var out []core.ToolID
	for _, tool := range catalog {
		if flags[string(tool)] {
			out = append(out, tool)
		}
	}
	return out
}

func toStringMap(raw any) map[string]string {
	out := make(map[string]string)
	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	for key, value := range m {
		if s, ok := value.(string); ok {
			out[key] = s
		} else {
			out[key] = fmt.Sprintf("%v", value)
		}
	}
	return out
}

func missingKeys(m map[string]any, required []string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := m[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func missingStringKeys(m map[string]string, required []string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := m[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
