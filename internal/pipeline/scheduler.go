package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/graph"
	"github.com/plasticlab/niasflow/internal/table"
)

// ResolveDepths computes each tool's depth for a goal from the requirement
// schema, applying the override/fallback precedence.
func ResolveDepths(schema *config.Schema, tools []core.ToolID, goal core.Goal) map[core.ToolID]core.Depth {
	depths := make(map[core.ToolID]core.Depth, len(tools))
	for _, tool := range tools {
		depths[tool] = schema.ResolveDepth(tool, goal)
	}
	return depths
}

// toolsAt filters an ordered tool list down to those resolved to a bucket,
// preserving catalog order for deterministic dispatch.
func toolsAt(ordered []core.ToolID, depths map[core.ToolID]core.Depth, bucket core.Depth) []core.ToolID {
	var due []core.ToolID
	for _, tool := range ordered {
		if depths[tool] == bucket {
			due = append(due, tool)
		}
	}
	return due
}

// runAndIntegratePerDepth walks the depth buckets in order. For every
// bucket all due run operations complete before any due integration
// starts, because integration consumes run output. Run operations within a
// bucket carry no ordering dependency on each other and execute
// concurrently; their writes are confined to per-tool output folders.
func (r *Runner) runAndIntegratePerDepth(ctx context.Context) error {
	settings := r.pc.Settings
	runDepths := ResolveDepths(settings.Schema, settings.RunSet, core.GoalRunning)
	integrationDepths := ResolveDepths(settings.Schema, settings.IntegrateSet, core.GoalIntegration)

	for _, bucket := range core.Buckets() {
		logger := r.pc.Logger.WithDepth(bucket.String())

		if bucket == core.Depth3 {
			if err := r.loadBaseGraph(); err != nil {
				return err
			}
		}
		if bucket == core.Depth4 {
			r.deriveProjection()
		}

		running := toolsAt(settings.RunSet, runDepths, bucket)
		integrating := toolsAt(settings.IntegrateSet, integrationDepths, bucket)
		if len(running) == 0 && len(integrating) == 0 {
			continue
		}
		logger.Info("processing depth bucket", "running", running, "integrating", integrating)

		g, gctx := errgroup.WithContext(ctx)
		for _, tool := range running {
			tool := tool
			g.Go(func() error {
				return r.dispatcher.Run(gctx, r.pc, tool)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Integrations mutate the shared projection and run sequentially.
		for _, tool := range integrating {
			if err := r.dispatcher.Integrate(ctx, r.pc, tool); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadBaseGraph materializes the working graph from the base network
// artifact. Tools requiring the graph must be of depth 3 or later.
func (r *Runner) loadBaseGraph() error {
	path, ok := r.pc.Settings.Path("base_network")
	if !ok {
		return core.ErrIntegration("", "no base_network path registered, was the network construction tool selected?")
	}
	g, err := graph.ReadGraphMLFile(path)
	if err != nil {
		return core.ErrIntegration("", "loading base network graph").WithCause(err)
	}
	r.pc.Graph = g
	r.pc.Logger.Info("loaded base network",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)
	return nil
}

// deriveProjection flattens the working graph into the tabular projection
// and computes the consensus join key and formula columns. Tools requiring
// the projection must be of depth 4 or later.
func (r *Runner) deriveProjection() {
	r.pc.Projection = table.FromGraph(r.pc.Graph)
	r.pc.JoinKey = consensusJoinKey
	table.ResolveConsensus(r.pc.Projection, consensusJoinKey,
		"csifingerid:smiles", "csifingerid_db:smiles")
	table.ResolveConsensus(r.pc.Projection, consensusFormulaColumn,
		"sirius:molecularFormula", "sirius_db:molecularFormula")
	r.pc.Logger.Info("derived tabular projection", "rows", r.pc.Projection.Len())
}
