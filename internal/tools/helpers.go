package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// requirePath resolves a logical path and fails with a requirement error
// naming the key. Requirement validation normally catches this earlier;
// this guards tools whose schema entry omitted the key.
func requirePath(pc *pipeline.Context, tool core.ToolID, key string) (string, error) {
	if v, ok := pc.Settings.Path(key); ok {
		return v, nil
	}
	return "", core.ErrRequirement(tool, fmt.Sprintf("path %q required but not registered", key))
}

// requireProjection guards operations that consume the tabular projection,
// which only exists from depth 4 on.
func requireProjection(pc *pipeline.Context, tool core.ToolID) (*table.Table, error) {
	if pc.Projection == nil {
		return nil, core.ErrIntegration(tool,
			"tabular projection not derived yet, schedule this operation at depth 4 or later")
	}
	return pc.Projection, nil
}

// writeJoinKeyFile materializes the projection's consensus join-key column
// as a delimited single-column file, one identifier per line. Tools that
// consume a flat identifier list are fed through this.
func writeJoinKeyFile(pc *pipeline.Context, tool core.ToolID, filename string, header bool) (string, error) {
	proj, err := requireProjection(pc, tool)
	if err != nil {
		return "", err
	}
	path := filepath.Join(pc.Settings.OutputFolder, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", core.ErrExternalTool(tool, fmt.Sprintf("creating %s", path)).WithCause(err)
	}
	defer f.Close()
	n, err := table.WriteColumn(proj, pc.JoinKey, f, header)
	if err != nil {
		return "", core.ErrExternalTool(tool, fmt.Sprintf("writing %s", path)).WithCause(err)
	}
	pc.Logger.Debug("wrote identifier list", "tool", tool, "path", path, "count", n)
	return path, nil
}

// mergeRecord folds a tool's output table into the projection. The join
// columns and carried columns default per tool but may be overridden by
// the schema's integration translations: a "join" table with "record" and
// "target" entries, and a "columns" table mapping source to target names.
func mergeRecord(pc *pipeline.Context, tool core.ToolID, output *table.Table, defaultJoin string, defaultColumns map[string]string) error {
	proj, err := requireProjection(pc, tool)
	if err != nil {
		return err
	}

	entry := pc.Settings.Schema.Tool(tool)
	join := entry.Translations(core.GoalIntegration, "join")
	columns := entry.Translations(core.GoalIntegration, "columns")
	if len(columns) == 0 {
		columns = defaultColumns
	}

	rec := table.Record{
		Table:     output,
		JoinKey:   defaultJoin,
		TargetKey: pc.JoinKey,
		Columns:   columns,
	}
	if v, ok := join["record"]; ok {
		rec.JoinKey = v
	}
	if v, ok := join["target"]; ok {
		rec.TargetKey = v
	}

	if err := table.Merge(proj, rec); err != nil {
		return core.ErrIntegration(tool, "merging output into projection").WithCause(err).
			WithDetail("join_key", rec.JoinKey)
	}
	return nil
}

// mergeRecordOnNodeID folds a tool's output table into the projection by
// joining a record column directly against node IDs.
func mergeRecordOnNodeID(pc *pipeline.Context, tool core.ToolID, output *table.Table, joinColumn string, defaultColumns map[string]string) error {
	proj, err := requireProjection(pc, tool)
	if err != nil {
		return err
	}

	entry := pc.Settings.Schema.Tool(tool)
	columns := entry.Translations(core.GoalIntegration, "columns")
	if len(columns) == 0 {
		columns = defaultColumns
	}
	if join := entry.Translations(core.GoalIntegration, "join"); join["record"] != "" {
		joinColumn = join["record"]
	}

	rec := table.Record{Table: output, JoinKey: joinColumn, Columns: columns}
	if err := table.Merge(proj, rec); err != nil {
		return core.ErrIntegration(tool, "merging output into projection").WithCause(err).
			WithDetail("join_key", joinColumn)
	}
	return nil
}
