package tools

import (
	"context"
	"path/filepath"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/extcmd"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// toxtreeModules maps the short module names accepted in run parameters to
// the decision-tree class names the toxtree CLI expects. The schema's
// running-goal "modules" translations extend or override this table.
var toxtreeModules = map[string]string{
	"cramer":  "toxTree.tree.cramer.CramerRules",
	"cramer2": "cramer2.CramerRulesWithExtensions",
	"cramer3": "toxtree.tree.cramer3.RevisedCramerDecisionTree",
	"kroes":   "toxtree.plugins.kroes.Kroes1Tree",
	"skin":    "sicret.SicretRules",
	"eye":     "eye.EyeIrritationRules",
	"ames":    "toxtree.plugins.ames.AmesMutagenicityRules",
}

// toxtree screens the consensus structures for structural toxicity alerts
// with a configurable decision-tree module.
type toxtree struct {
	opts *Options
}

func (t *toxtree) ID() core.ToolID { return core.ToolToxtree }

func (t *toxtree) RegisterDerivedPaths(settings *config.Settings) {
	settings.SetPath("toxtree_output", filepath.Join(settings.OutputFolder, "toxtree_results.csv"))
}

// moduleClass resolves the configured module name to a decision-tree
// class, schema translations first, built-in table second.
func (t *toxtree) moduleClass(pc *pipeline.Context) (string, error) {
	module := pc.Settings.ToolParamString(t.ID(), "module")
	if module == "" {
		module = "cramer"
	}
	custom := pc.Settings.Schema.Tool(t.ID()).Translations(core.GoalRunning, "modules")
	if class, ok := custom[module]; ok {
		return class, nil
	}
	if class, ok := toxtreeModules[module]; ok {
		return class, nil
	}
	return "", core.ErrUnsupportedModule(t.ID(), module)
}

func (t *toxtree) Run(ctx context.Context, pc *pipeline.Context) error {
	location, err := requirePath(pc, t.ID(), "toxtree_path")
	if err != nil {
		return err
	}
	output, err := requirePath(pc, t.ID(), "toxtree_output")
	if err != nil {
		return err
	}
	class, err := t.moduleClass(pc)
	if err != nil {
		return err
	}
	input, err := writeJoinKeyFile(pc, t.ID(), "toxtree_input.csv", true)
	if err != nil {
		return err
	}

	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    location,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	_, err = cmd.Execute(ctx, []string{"-n", "-i", input, "-o", output, "-m", class}, "")
	return err
}

func (t *toxtree) Integrate(_ context.Context, pc *pipeline.Context) error {
	path, err := requirePath(pc, t.ID(), "toxtree_output")
	if err != nil {
		return err
	}
	results, err := table.ReadDelimitedFile(path, table.ReadOptions{})
	if err != nil {
		return core.ErrIntegration(t.ID(), "parsing toxicity results").WithCause(err)
	}
	// Carry every result column; the alert names vary per module.
	return mergeRecord(pc, t.ID(), results, "SMILES", nil)
}
