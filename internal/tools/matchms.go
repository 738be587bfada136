package tools

import (
	"context"
	"path/filepath"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/extcmd"
	"github.com/plasticlab/niasflow/internal/pipeline"
)

// matchms is the network-construction tool: it builds the base molecular
// network from the feature MGF. It has no integrate behavior; the base
// graph it produces is materialized by the scheduler at depth 3.
type matchms struct {
	opts *Options
}

func (t *matchms) ID() core.ToolID { return core.ToolMatchms }

func (t *matchms) RegisterDerivedPaths(settings *config.Settings) {
	settings.SetPath("base_network", filepath.Join(settings.OutputFolder, "base_network.graphml"))
}

func (t *matchms) Run(ctx context.Context, pc *pipeline.Context) error {
	command, err := requirePath(pc, t.ID(), "matchms_command")
	if err != nil {
		return err
	}
	inputMGF, err := requirePath(pc, t.ID(), "input_mgf")
	if err != nil {
		return err
	}
	output, err := requirePath(pc, t.ID(), "base_network")
	if err != nil {
		return err
	}

	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    command,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	_, err = cmd.Execute(ctx, []string{"--input", inputMGF, "--output", output}, "")
	return err
}
