package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/core"
	"github.com/plasticlab/niasflow/internal/extcmd"
	"github.com/plasticlab/niasflow/internal/fsutil"
	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/table"
)

// mzmine is the preprocessing and feature-detection tool. Its run produces
// the feature MGF files and the quantification table every downstream tool
// builds on.
type mzmine struct {
	opts *Options
}

func (t *mzmine) ID() core.ToolID { return core.ToolMzmine }

func (t *mzmine) RegisterDerivedPaths(settings *config.Settings) {
	loc := filepath.Join(settings.OutputFolder, "mzmine")
	settings.SetPath("input_mgf", filepath.Join(loc, "mzmine_iimn_fbmn.mgf"))
	settings.SetPath("sirius_mgf", filepath.Join(loc, "mzmine_sirius.mgf"))
	settings.SetPath("quant_table", filepath.Join(loc, "mzmine_iimn_fbmn_quant_full.csv"))
}

func (t *mzmine) Run(ctx context.Context, pc *pipeline.Context) error {
	location, err := requirePath(pc, t.ID(), "mzmine_location")
	if err != nil {
		return err
	}
	batchfile, err := requirePath(pc, t.ID(), "mzmine_base_batchfile")
	if err != nil {
		return err
	}
	userfile := pc.Settings.PathOr("mzmine_userfile_location", "")

	// Use the explicit file list when provided, otherwise fall back to the
	// contents of the data folder.
	files, err := t.dataFiles(pc)
	if err != nil {
		return err
	}

	outputLoc := filepath.Join(pc.Settings.OutputFolder, "mzmine")
	if err := fsutil.EnsureDir(filepath.Join(outputLoc, "temp")); err != nil {
		return core.ErrExternalTool(t.ID(), "creating mzmine output folder").WithCause(err)
	}
	filelist := filepath.Join(outputLoc, "input_files.txt")
	if err := os.WriteFile(filelist, []byte(strings.Join(files, "\n")+"\n"), 0o600); err != nil {
		return core.ErrExternalTool(t.ID(), "writing input file list").WithCause(err)
	}

	args := []string{
		"-batch", batchfile,
		"-input", filelist,
		"-output", outputLoc,
		"-temp", filepath.Join(outputLoc, "temp"),
	}
	if userfile != "" {
		args = append(args, "-user", userfile)
	}
	cmd := &extcmd.Command{
		Tool:    t.ID(),
		Path:    location,
		Timeout: t.opts.Timeout,
		Logger:  pc.Logger,
	}
	_, err = cmd.Execute(ctx, args, "")
	return err
}

func (t *mzmine) dataFiles(pc *pipeline.Context) ([]string, error) {
	if list, ok := pc.Settings.Path("file_list"); ok {
		data, err := fsutil.ReadFileScoped(list)
		if err != nil {
			return nil, core.ErrExternalTool(t.ID(), fmt.Sprintf("reading file list %s", list)).WithCause(err)
		}
		var files []string
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				files = append(files, line)
			}
		}
		return files, nil
	}
	folder, err := requirePath(pc, t.ID(), "data_folder")
	if err != nil {
		return nil, err
	}
	files, err := fsutil.ListFiles(folder)
	if err != nil {
		return nil, core.ErrExternalTool(t.ID(), "listing data folder").WithCause(err)
	}
	return files, nil
}

// Integrate joins the quantification table onto the projection by feature
// row ID, which is also the network node ID.
func (t *mzmine) Integrate(_ context.Context, pc *pipeline.Context) error {
	quantPath, err := requirePath(pc, t.ID(), "quant_table")
	if err != nil {
		return err
	}
	quant, err := table.ReadDelimitedFile(quantPath, table.ReadOptions{})
	if err != nil {
		return core.ErrIntegration(t.ID(), "parsing quantification table").WithCause(err)
	}
	return mergeRecordOnNodeID(pc, t.ID(), quant, "row ID", nil)
}
