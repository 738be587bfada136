package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/fsutil"
	"github.com/plasticlab/niasflow/internal/graph"
	"github.com/plasticlab/niasflow/internal/logging"
	"github.com/plasticlab/niasflow/internal/table"
)

const (
	// consensusJoinKey is the structure identifier column integrations
	// join on once the projection exists.
	consensusJoinKey = "smiles"

	// consensusFormulaColumn is the consensus molecular formula column.
	consensusFormulaColumn = "Molecular formula"

	// maxComponentNodes bounds connected-component size in the output.
	// Larger components are discarded before serialization.
	maxComponentNodes = 100
)

// classificationLevels are the consensus classification attributes
// computed over every node after all buckets complete.
var classificationLevels = []string{"subclass", "class", "superclass"}

// Runner is the pipeline handle: it holds a validated configuration and
// executes the full run-and-integrate schedule once.
type Runner struct {
	pc         *Context
	dispatcher Dispatcher
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for the run.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Runner) {
		r.pc.Logger = logger
	}
}

// New constructs a pipeline from a parsed configuration document. The
// requirement schema is loaded, every selected tool registers its derived
// artifact paths, and all requirements are validated fail-fast. No tool
// runs until the whole configuration is known to be satisfiable.
func New(doc *config.Document, dispatcher Dispatcher, opts ...Option) (*Runner, error) {
	settings, err := config.NewSettings(doc)
	if err != nil {
		return nil, err
	}
	return newRunner(settings, dispatcher, opts...)
}

// NewFromFile constructs a pipeline from a configuration document on disk.
func NewFromFile(path string, dispatcher Dispatcher, opts ...Option) (*Runner, error) {
	doc, err := config.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return New(doc, dispatcher, opts...)
}

// NewWithSettings constructs a pipeline from already-resolved settings.
func NewWithSettings(settings *config.Settings, dispatcher Dispatcher, opts ...Option) (*Runner, error) {
	return newRunner(settings, dispatcher, opts...)
}

func newRunner(settings *config.Settings, dispatcher Dispatcher, opts ...Option) (*Runner, error) {
	r := &Runner{
		pc: &Context{
			Settings: settings,
			Logger:   logging.NewNop(),
			Graph:    graph.New(),
		},
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pc.Logger = r.pc.Logger.WithRun(settings.Name)

	if err := fsutil.EnsureDir(settings.OutputFolder); err != nil {
		return nil, core.ErrConfiguration("OUTPUT_FOLDER",
			fmt.Sprintf("creating output folder %s", settings.OutputFolder)).WithCause(err)
	}

	// Tools register the artifacts they will produce before requirements
	// are checked, so downstream tools can require them as inputs.
	for _, tool := range settings.RunSet {
		dispatcher.RegisterDerivedPaths(tool, settings)
	}
	for _, tool := range settings.IntegrateSet {
		dispatcher.RegisterDerivedPaths(tool, settings)
	}

	if err := settings.CheckAllRequirements(); err != nil {
		return nil, err
	}
	return r, nil
}

// Settings exposes the resolved settings of this run.
func (r *Runner) Settings() *config.Settings {
	return r.pc.Settings
}

// RunAll executes the whole schedule: every depth bucket in order, then
// the consensus classification fields, then the serialized artifact. Any
// failure aborts the remaining pipeline; a failed run produces no output
// artifact.
func (r *Runner) RunAll(ctx context.Context) error {
	if err := r.runAndIntegratePerDepth(ctx); err != nil {
		return err
	}
	if err := r.finalize(); err != nil {
		return err
	}
	r.pc.Logger.Info("successfully ran and integrated all tools")
	return nil
}

// finalize computes the consensus classification columns, materializes the
// integrated graph, filters oversized components and writes the artifact.
func (r *Runner) finalize() error {
	proj := r.pc.Projection
	if proj == nil {
		// Nothing past depth 3 ever ran; still produce a projection so the
		// artifact shape is uniform.
		r.deriveProjection()
		proj = r.pc.Projection
	}

	for _, level := range classificationLevels {
		table.ResolveConsensus(proj, level, "canopus:CF_"+level, "CF:"+level)
	}

	integrated := r.integratedGraph()
	integrated.FilterLargeComponents(maxComponentNodes)

	data, err := integrated.MarshalGraphML()
	if err != nil {
		return core.ErrInternal("serializing integrated network").WithCause(err)
	}
	out := filepath.Join(r.pc.Settings.OutputFolder, r.pc.Settings.Name+".graphml")
	if err := fsutil.AtomicWriteFile(out, data, 0o600); err != nil {
		return core.ErrInternal(fmt.Sprintf("writing %s", out)).WithCause(err)
	}
	r.pc.Logger.Info("wrote integrated network",
		"path", out,
		"nodes", integrated.NodeCount(),
		"edges", integrated.EdgeCount(),
	)
	return nil
}

// integratedGraph rebuilds the network from the working graph's edge list
// and overlays the projection's attributes. Projection rows absent from
// the edge-derived graph become isolated nodes. Every attribute value is
// string-coerced with missing markers folded into the canonical sentinel,
// since the downstream visualization format has no null representation.
func (r *Runner) integratedGraph() *graph.Graph {
	integrated := graph.New()
	for _, e := range r.pc.Graph.Edges() {
		attrs := make(graph.Attrs, len(e.Attrs))
		for k, v := range e.Attrs {
			attrs[k] = table.Normalize(v)
		}
		integrated.AddEdge(e.Source, e.Target, attrs)
	}

	columns := r.pc.Projection.Columns()
	for _, row := range r.pc.Projection.Rows() {
		integrated.AddNode(row.ID())
		for _, col := range columns {
			integrated.SetNodeAttr(row.ID(), col, row.Value(col))
		}
	}
	return integrated
}
