// Package tools implements the closed catalog of external analytical tools:
// one variant per tool identifier, each with its own run and integrate
// behavior, registered in a lookup table built at startup.
package tools

import (
	"context"
	"time"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/pipeline"
)

// Tool is one catalog entry.
type Tool interface {
	ID() core.ToolID
}

// RunBehavior is implemented by tools that can be run.
type RunBehavior interface {
	Run(ctx context.Context, pc *pipeline.Context) error
}

// IntegrateBehavior is implemented by tools that can be integrated.
type IntegrateBehavior interface {
	Integrate(ctx context.Context, pc *pipeline.Context) error
}

// PathRegistrar is implemented by tools that register artifact paths they
// will produce, so later-depth tools can consume them.
type PathRegistrar interface {
	RegisterDerivedPaths(settings *config.Settings)
}

// Options carries cross-tool invocation settings.
type Options struct {
	// Timeout bounds every external collaborator invocation; zero imposes
	// no timeout.
	Timeout time.Duration
}

// Registry implements pipeline.Dispatcher over the tool catalog. Adding a
// tool means adding a variant here, not editing a central conditional.
type Registry struct {
	tools map[core.ToolID]Tool
}

// Option configures a Registry.
type Option func(*Options)

// WithTimeout bounds external tool invocations.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// NewRegistry builds the default catalog.
func NewRegistry(opts ...Option) *Registry {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	r := &Registry{tools: make(map[core.ToolID]Tool)}
	r.register(
		&mzmine{opts: o},
		&matchms{opts: o},
		&ms2lda{opts: o},
		&sirius{opts: o},
		&sirius{opts: o, db: true},
		&classyfire{opts: o},
		&toxtree{opts: o},
		&plastchemdb{},
	)
	return r
}

func (r *Registry) register(tools ...Tool) {
	for _, t := range tools {
		r.tools[t.ID()] = t
	}
}

// RegisterDerivedPaths implements pipeline.Dispatcher.
func (r *Registry) RegisterDerivedPaths(tool core.ToolID, settings *config.Settings) {
	if t, ok := r.tools[tool]; ok {
		if registrar, ok := t.(PathRegistrar); ok {
			registrar.RegisterDerivedPaths(settings)
		}
	}
}

// Run implements pipeline.Dispatcher. Identifiers outside the catalog and
// tools without a run behavior are silently ignored.
func (r *Registry) Run(ctx context.Context, pc *pipeline.Context, tool core.ToolID) error {
	t, ok := r.tools[tool]
	if !ok {
		pc.Logger.Debug("ignoring unknown tool", "tool", tool)
		return nil
	}
	runner, ok := t.(RunBehavior)
	if !ok {
		pc.Logger.Debug("tool has no run behavior", "tool", tool)
		return nil
	}
	pc.Logger.WithTool(string(tool)).Info("running tool")
	return runner.Run(ctx, pc)
}

// Integrate implements pipeline.Dispatcher with the same total-over-catalog
// semantics as Run.
func (r *Registry) Integrate(ctx context.Context, pc *pipeline.Context, tool core.ToolID) error {
	t, ok := r.tools[tool]
	if !ok {
		pc.Logger.Debug("ignoring unknown tool", "tool", tool)
		return nil
	}
	integrator, ok := t.(IntegrateBehavior)
	if !ok {
		pc.Logger.Debug("tool has no integrate behavior", "tool", tool)
		return nil
	}
	pc.Logger.WithTool(string(tool)).Info("integrating tool")
	return integrator.Integrate(ctx, pc)
}
