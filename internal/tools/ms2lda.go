package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/extcmd"
	"github.com/plasticlab/niasflow/internal/fsutil"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// ms2lda runs substructure motif discovery over the feature MGF and
// integrates its motif annotations, persisted by the tool as a SQLite
// database, onto the projection.
type ms2lda struct {
	opts *Options
}

func (t *ms2lda) ID() core.ToolID { return core.ToolMS2LDA }

func (t *ms2lda) RegisterDerivedPaths(settings *config.Settings) {
	loc := filepath.Join(settings.OutputFolder, "ms2lda")
	settings.SetPath("ms2lda_output", loc)
	settings.SetPath("ms2lda_results_db", filepath.Join(loc, "motif_annotations.db"))
}

func (t *ms2lda) Run(ctx context.Context, pc *pipeline.Context) error {
	command, err := requirePath(pc, t.ID(), "ms2lda_command")
	if err != nil {
		return err
	}
	inputMGF, err := requirePath(pc, t.ID(), "input_mgf")
	if err != nil {
		return err
	}
	outputLoc, err := requirePath(pc, t.ID(), "ms2lda_output")
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(outputLoc); err != nil {
		return core.ErrExternalTool(t.ID(), "creating ms2lda output folder").WithCause(err)
	}

	// Tool parameters pass through verbatim as a JSON parameter file.
	params := pc.Settings.ToolParams(t.ID())
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return core.ErrInternal("marshaling ms2lda parameters").WithCause(err)
	}
	paramFile := filepath.Join(outputLoc, "ms2lda_params.json")
	if err := fsutil.AtomicWriteFile(paramFile, data, 0o600); err != nil {
		return core.ErrExternalTool(t.ID(), "writing parameter file").WithCause(err)
	}

	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    command,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	args := []string{
		"--input", inputMGF,
		"--params", paramFile,
		"--output", outputLoc,
	}
	_, err = cmd.Execute(ctx, args, "")
	return err
}

// Integrate reads the motif annotation database and joins its per-feature
// annotations against node IDs.
func (t *ms2lda) Integrate(ctx context.Context, pc *pipeline.Context) error {
	dbPath, err := requirePath(pc, t.ID(), "ms2lda_results_db")
	if err != nil {
		return err
	}
	annotations, err := t.readAnnotations(ctx, dbPath)
	if err != nil {
		return err
	}
	return mergeRecordOnNodeID(pc, t.ID(), annotations, "feature_id", map[string]string{
		"motif_id":    "ms2lda:motif",
		"annotation":  "ms2lda:annotation",
		"probability": "ms2lda:probability",
	})
}

func (t *ms2lda) readAnnotations(ctx context.Context, path string) (*table.Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, core.ErrIntegration(t.ID(), "opening annotation database").WithCause(err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT feature_id, motif_id, annotation, probability
		 FROM motif_annotations ORDER BY feature_id`)
	if err != nil {
		return nil, core.ErrIntegration(t.ID(), "querying motif annotations").WithCause(err)
	}
	defer rows.Close()

	out := table.New()
	for rows.Next() {
		var (
			featureID   string
			motifID     string
			annotation  sql.NullString
			probability sql.NullFloat64
		)
		if err := rows.Scan(&featureID, &motifID, &annotation, &probability); err != nil {
			return nil, core.ErrIntegration(t.ID(), "scanning motif annotation").WithCause(err)
		}
		row := out.AddRow(featureID)
		row.Set("feature_id", featureID)
		row.Set("motif_id", motifID)
		if annotation.Valid {
			row.Set("annotation", annotation.String)
		} else {
			row.Set("annotation", table.Missing)
		}
		if probability.Valid {
			row.Set("probability", strconv.FormatFloat(probability.Float64, 'f', -1, 64))
		} else {
			row.Set("probability", table.Missing)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, core.ErrIntegration(t.ID(), "reading motif annotations").WithCause(err)
	}
	if out.Len() == 0 {
		return nil, core.ErrIntegration(t.ID(), fmt.Sprintf("annotation database %s holds no rows", path))
	}
	return out, nil
}
