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

// classyfire resolves chemical ontology classes for the consensus
// structures. It consumes the projection's identifier column, so both of
// its operations require the tabular stage.
type classyfire struct {
	opts *Options
}

func (t *classyfire) ID() core.ToolID { return core.ToolClassyfire }

func (t *classyfire) RegisterDerivedPaths(settings *config.Settings) {
	settings.SetPath("classyfire_output", filepath.Join(settings.OutputFolder, "classyfire_results.tsv"))
}

func (t *classyfire) Run(ctx context.Context, pc *pipeline.Context) error {
	command, err := requirePath(pc, t.ID(), "classyfire_command")
	if err != nil {
		return err
	}
	output, err := requirePath(pc, t.ID(), "classyfire_output")
	if err != nil {
		return err
	}
	input, err := writeJoinKeyFile(pc, t.ID(), "classyfire_input.csv", false)
	if err != nil {
		return err
	}

	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    command,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	_, err = cmd.Execute(ctx, []string{"--input", input, "--output", output}, "")
	return err
}

func (t *classyfire) Integrate(_ context.Context, pc *pipeline.Context) error {
	path, err := requirePath(pc, t.ID(), "classyfire_output")
	if err != nil {
		return err
	}
	results, err := table.ReadDelimitedFile(path, table.ReadOptions{Comma: '\t'})
	if err != nil {
		return core.ErrIntegration(t.ID(), "parsing classification results").WithCause(err)
	}
	return mergeRecord(pc, t.ID(), results, "smiles", map[string]string{
		"subclass":   "CF:subclass",
		"class":      "CF:class",
		"superclass": "CF:superclass",
	})
}
