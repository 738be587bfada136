// Package pipeline orchestrates the depth-ordered run and integration of
// the external analytical tools and owns the shared result model.
package pipeline

import (
	"context"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/graph"
	"github.com/plasticlab/niasflow/internal/logging"
	"github.com/plasticlab/niasflow/internal/table"
)

// Context is the mutable state threaded through every phase and tool
// operation: the resolved settings, the working graph and its tabular
// projection. It is owned by a single pipeline run and never shared
// concurrently with tool execution.
type Context struct {
	Settings *config.Settings
	Logger   *logging.Logger

	// Graph is the working molecular network, materialized from the base
	// graph artifact at the start of depth 3.
	Graph *graph.Graph

	// Projection is the row-per-node view of the graph, derived at the
	// start of depth 4. Integrations join against it.
	Projection *table.Table

	// JoinKey is the consensus column integrations join on by default.
	JoinKey string
}

// Dispatcher maps tool identifiers to their run and integrate behaviors.
// Unknown identifiers and unsupported operations are silently ignored: the
// catalog is closed and selection is validated upstream.
type Dispatcher interface {
	// RegisterDerivedPaths lets a tool register the artifact paths it will
	// produce, before requirement validation runs, so later-depth tools can
	// declare them as requirements.
	RegisterDerivedPaths(tool core.ToolID, settings *config.Settings)

	// Run dispatches a tool's run operation.
	Run(ctx context.Context, pc *Context, tool core.ToolID) error

	// Integrate dispatches a tool's integrate operation.
	Integrate(ctx context.Context, pc *Context, tool core.ToolID) error
}
