package tools

import (
	"context"
	"path/filepath"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/extcmd"
	"github.com/plasticlab/niasflow/internal/fsutil"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// sirius covers both the stock formula/structure annotation run and the
// custom-database variant. The two differ only in the structure database
// they search and the attribute namespace their results land in, so one
// variant type serves both catalog entries.
type sirius struct {
	opts *Options
	db   bool
}

func (t *sirius) ID() core.ToolID {
	if t.db {
		return core.ToolSiriusDB
	}
	return core.ToolSirius
}

func (t *sirius) prefix() string {
	if t.db {
		return "sirius_db"
	}
	return "sirius"
}

// namespaces returns the node-attribute namespaces for the formula,
// structure and compound-class result files.
func (t *sirius) namespaces() (formula, structure, classes string) {
	if t.db {
		return "sirius_db", "csifingerid_db", "canopus_db"
	}
	return "sirius", "csifingerid", "canopus"
}

func (t *sirius) RegisterDerivedPaths(settings *config.Settings) {
	loc := filepath.Join(settings.OutputFolder, t.prefix())
	settings.SetPath(t.prefix()+"_tool_output", loc)
	settings.SetPath(t.prefix()+"_formula_output", filepath.Join(loc, "formula_identifications.tsv"))
	settings.SetPath(t.prefix()+"_structure_output", filepath.Join(loc, "structure_identifications.tsv"))
	settings.SetPath(t.prefix()+"_canopus_output", filepath.Join(loc, "canopus_compound_summary.tsv"))
}

func (t *sirius) Run(ctx context.Context, pc *pipeline.Context) error {
	location, err := requirePath(pc, t.ID(), "sirius_path")
	if err != nil {
		return err
	}
	inputMGF, err := requirePath(pc, t.ID(), "sirius_mgf")
	if err != nil {
		return err
	}
	outputLoc, err := requirePath(pc, t.ID(), t.prefix()+"_tool_output")
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(outputLoc); err != nil {
		return core.ErrExternalTool(t.ID(), "creating sirius output folder").WithCause(err)
	}

	args := []string{
		"--input", inputMGF,
		"--output", outputLoc,
		"formula",
	}
	if instrument := pc.Settings.ToolParamString(t.ID(), "instrument"); instrument != "" {
		args = append(args, "--profile", instrument)
	}
	args = append(args, "fingerprint", "structure")
	if t.db {
		customDB, err := requirePath(pc, t.ID(), "sirius_custom_db")
		if err != nil {
			return err
		}
		args = append(args, "--databases", customDB)
	} else if formulaDB := pc.Settings.ToolParamString(t.ID(), "formula_db"); formulaDB != "" {
		args = append(args, "--databases", formulaDB)
	}
	args = append(args, "canopus", "write-summaries")

	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    location,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	_, err = cmd.Execute(ctx, args, "")
	return err
}

// Integrate annotates base-network nodes with formula, structure and
// compound-class results. This runs against the graph, not the projection:
// the consensus derivation at the next depth reads these attributes.
func (t *sirius) Integrate(_ context.Context, pc *pipeline.Context) error {
	if pc.Graph == nil {
		return core.ErrIntegration(t.ID(),
			"base network not loaded yet, schedule this operation at depth 3 or later")
	}
	formulaNS, structureNS, classNS := t.namespaces()

	summaries := []struct {
		pathKey     string
		translation string
		defaults    map[string]string
	}{
		{
			pathKey:     t.prefix() + "_formula_output",
			translation: "sirius",
			defaults:    map[string]string{"molecularFormula": formulaNS + ":molecularFormula"},
		},
		{
			pathKey:     t.prefix() + "_structure_output",
			translation: "csi:fingerid",
			defaults:    map[string]string{"smiles": structureNS + ":smiles"},
		},
		{
			pathKey:     t.prefix() + "_canopus_output",
			translation: "canopus",
			defaults: map[string]string{
				"ClassyFire#subclass":   classNS + ":CF_subclass",
				"ClassyFire#class":      classNS + ":CF_class",
				"ClassyFire#superclass": classNS + ":CF_superclass",
			},
		},
	}

	entry := pc.Settings.Schema.Tool(t.ID())
	idColumn := "mappingFeatureId"
	if join := entry.Translations(core.GoalIntegration, "join"); join["record"] != "" {
		idColumn = join["record"]
	}

	for _, s := range summaries {
		columns := entry.Translations(core.GoalIntegration, s.translation)
		if len(columns) == 0 {
			columns = s.defaults
		}
		if err := t.annotateFromSummary(pc, s.pathKey, idColumn, columns); err != nil {
			return err
		}
	}
	return nil
}

func (t *sirius) annotateFromSummary(pc *pipeline.Context, pathKey, idColumn string, columns map[string]string) error {
	path, err := requirePath(pc, t.ID(), pathKey)
	if err != nil {
		return err
	}
	summary, err := table.ReadDelimitedFile(path, table.ReadOptions{Comma: '\t'})
	if err != nil {
		return core.ErrIntegration(t.ID(), "parsing result summary").WithCause(err).
			WithDetail("path", path)
	}
	if !summary.HasColumn(idColumn) {
		return core.ErrIntegration(t.ID(), "result summary lacks feature ID column").
			WithDetail("path", path).WithDetail("column", idColumn)
	}

	annotated := 0
	for _, row := range summary.Rows() {
		node := row.Value(idColumn)
		// Results for features absent from the network (singletons pruned
		// upstream) are dropped.
		if table.IsMissing(node) || !pc.Graph.HasNode(node) {
			continue
		}
		for src, target := range columns {
			pc.Graph.SetNodeAttr(node, target, row.Value(src))
		}
		annotated++
	}
	pc.Logger.Debug("annotated network nodes", "tool", t.ID(), "path", path, "nodes", annotated)
	return nil
}
