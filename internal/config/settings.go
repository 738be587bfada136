package config

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/plasticlab/niasflow/internal/core"
)

// Settings is the resolved configuration a pipeline run operates on: the
// mutable paths map, the selected tool sets and the requirement schema.
type Settings struct {
	Name         string
	OutputFolder string
	Schema       *Schema

	RunSet       []core.ToolID
	IntegrateSet []core.ToolID

	paths  map[string]string
	params map[string]map[string]any
}

// NewSettings resolves a parsed document against the catalogs. The schema
// referenced by paths.internal_settings is loaded and parsed fail-closed.
func NewSettings(doc *Document) (*Settings, error) {
	schema, err := LoadSchema(doc.Paths["internal_settings"])
	if err != nil {
		return nil, err
	}
	return newSettings(doc, schema), nil
}

// NewSettingsWithSchema resolves a document against an in-memory schema.
func NewSettingsWithSchema(doc *Document, schema *Schema) *Settings {
	return newSettings(doc, schema)
}

func newSettings(doc *Document, schema *Schema) *Settings {
	name, ok := doc.Paths["name"]
	if !ok || name == "" {
		name = "run-" + uuid.NewString()[:8]
	}

	paths := make(map[string]string, len(doc.Paths))
	for k, v := range doc.Paths {
		paths[k] = v
	}

	return &Settings{
		Name:         name,
		OutputFolder: filepath.Join(doc.Paths["base_output_folder"], name),
		Schema:       schema,
		RunSet:       Selected(core.RunCatalog(), doc.RunTools),
		IntegrateSet: Selected(core.IntegrationCatalog(), doc.IntegrateTools),
		paths:        paths,
		params:       doc.ToolParams,
	}
}

// Path returns a resolved path by logical name.
func (s *Settings) Path(key string) (string, bool) {
	v, ok := s.paths[key]
	return v, ok
}

// PathOr returns a resolved path or a fallback when absent.
func (s *Settings) PathOr(key, fallback string) string {
	if v, ok := s.paths[key]; ok {
		return v
	}
	return fallback
}

// SetPath registers a path, typically an artifact a tool is about to
// produce that later-depth tools consume.
func (s *Settings) SetPath(key, value string) {
	s.paths[key] = value
}

// HasPath reports whether a logical path is registered.
func (s *Settings) HasPath(key string) bool {
	_, ok := s.paths[key]
	return ok
}

// ToolParams returns a tool's parameter block, never nil.
func (s *Settings) ToolParams(tool core.ToolID) map[string]any {
	if block, ok := s.params[string(tool)]; ok {
		return block
	}
	return map[string]any{}
}

// SetToolParam sets one parameter in a tool's block.
func (s *Settings) SetToolParam(tool core.ToolID, key string, value any) {
	if s.params == nil {
		s.params = map[string]map[string]any{}
	}
	if s.params[string(tool)] == nil {
		s.params[string(tool)] = map[string]any{}
	}
	s.params[string(tool)][key] = value
}

// ToolParam returns one parameter from a tool's block.
func (s *Settings) ToolParam(tool core.ToolID, key string) (any, bool) {
	v, ok := s.ToolParams(tool)[key]
	return v, ok
}

// ToolParamString returns one parameter coerced to a string; absent or
// non-string parameters yield "".
func (s *Settings) ToolParamString(tool core.ToolID, key string) string {
	if v, ok := s.ToolParam(tool, key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}
