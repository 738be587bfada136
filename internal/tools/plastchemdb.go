package tools

import (
	"context"

	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// plastchemdb matches consensus structures against a curated reference
// database of plastic-associated chemicals. The database ships as a flat
// file, so this entry is integration-only: there is nothing to run.
type plastchemdb struct{}

func (t *plastchemdb) ID() core.ToolID { return core.ToolPlastChemDB }

func (t *plastchemdb) Integrate(_ context.Context, pc *pipeline.Context) error {
	path, err := requirePath(pc, t.ID(), "plastchem_path")
	if err != nil {
		return err
	}
	// The distributed file carries a citation line above the header.
	db, err := table.ReadDelimitedFile(path, table.ReadOptions{Comma: '\t', SkipLines: 1})
	if err != nil {
		return core.ErrIntegration(t.ID(), "parsing reference database").WithCause(err)
	}
	return mergeRecord(pc, t.ID(), db, "SMILES", nil)
}
