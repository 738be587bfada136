package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/fsutil"
)

// Schema is the requirement schema document: per tool, per goal, the
// declared preconditions, depth assignments and column translations.
type Schema struct {
	tools map[string]*ToolSchema
}

// ToolSchema is one tool's entry in the requirement schema.
type ToolSchema struct {
	Depth       any         `json:"depth,omitempty"`
	Running     *GoalSchema `json:"running,omitempty"`
	Integration *GoalSchema `json:"integration,omitempty"`
}

// GoalSchema holds the per-goal depth override, requirements and
// translation tables.
type GoalSchema struct {
	Depth        any                          `json:"depth,omitempty"`
	Requirements *Requirements                `json:"requirements,omitempty"`
	Translations map[string]map[string]string `json:"translations,omitempty"`
}

// Requirements is the four-part AND/OR precondition set: every required
// entry must be present, and within each optional group at least one
// member must be present.
type Requirements struct {
	Paths            []string   `json:"paths,omitempty"`
	Settings         []string   `json:"settings,omitempty"`
	OptionalPaths    [][]string `json:"optional_paths,omitempty"`
	OptionalSettings [][]string `json:"optional_settings,omitempty"`
}

// ParseSchema decodes a requirement schema document. Parsing fails closed:
// unknown keys inside tool entries and malformed shapes are rejected
// rather than silently defaulted.
func ParseSchema(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	tools := make(map[string]*ToolSchema)
	if err := dec.Decode(&tools); err != nil {
		return nil, core.ErrConfiguration(core.CodeSchemaMalformed,
			"requirement schema is malformed").WithCause(err)
	}

	for tool, entry := range tools {
		if entry == nil {
			return nil, core.ErrConfiguration(core.CodeSchemaMalformed,
				fmt.Sprintf("requirement schema entry for %q is null", tool))
		}
		for _, depth := range []any{entry.Depth, goalDepth(entry.Running), goalDepth(entry.Integration)} {
			if err := checkDepthShape(tool, depth); err != nil {
				return nil, err
			}
		}
	}
	return &Schema{tools: tools}, nil
}

// LoadSchema reads and parses a requirement schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := fsutil.ReadFileScoped(path)
	if err != nil {
		return nil, core.ErrConfiguration("SCHEMA_READ_FAILED",
			fmt.Sprintf("reading requirement schema %s", path)).WithCause(err)
	}
	return ParseSchema(data)
}

func goalDepth(g *GoalSchema) any {
	if g == nil {
		return nil
	}
	return g.Depth
}

func checkDepthShape(tool string, depth any) error {
	switch depth.(type) {
	case nil, string, float64:
		return nil
	}
	return core.ErrConfiguration(core.CodeSchemaMalformed,
		fmt.Sprintf("requirement schema depth for %q must be a number or string, got %T", tool, depth))
}

// Tool returns a tool's schema entry; absent tools yield an empty entry.
func (s *Schema) Tool(id core.ToolID) *ToolSchema {
	if entry, ok := s.tools[string(id)]; ok {
		return entry
	}
	return &ToolSchema{}
}

// Goal returns the per-goal schema of a tool, never nil.
func (t *ToolSchema) Goal(goal core.Goal) *GoalSchema {
	var g *GoalSchema
	switch goal {
	case core.GoalRunning:
		g = t.Running
	case core.GoalIntegration:
		g = t.Integration
	}
	if g == nil {
		return &GoalSchema{}
	}
	return g
}

// GoalRequirements returns the requirements of a tool for a goal, never nil.
func (t *ToolSchema) GoalRequirements(goal core.Goal) *Requirements {
	if req := t.Goal(goal).Requirements; req != nil {
		return req
	}
	return &Requirements{}
}

// ResolveDepth applies the depth precedence: the goal-specific override
// first, then the tool-level depth, then Unscheduled.
func (s *Schema) ResolveDepth(id core.ToolID, goal core.Goal) core.Depth {
	entry := s.Tool(id)
	if d := entry.Goal(goal).Depth; d != nil {
		return core.ParseDepth(d)
	}
	return core.ParseDepth(entry.Depth)
}

// Translations returns a named translation table of a tool's goal entry.
// Absent tables are empty.
func (t *ToolSchema) Translations(goal core.Goal, name string) map[string]string {
	if table, ok := t.Goal(goal).Translations[name]; ok {
		return table
	}
	return map[string]string{}
}
