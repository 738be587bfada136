package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/plasticlab/niasflow/internal/pipeline"
	"github.com/plasticlab/niasflow/internal/tools"
)

var errMissingConfig = errors.New("no configuration file given, pass --config or a positional path")

var toolTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Execute the full pipeline described by a configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := requireConfig(args)
		if err != nil {
			return err
		}
		logger := newLogger()

		registry := tools.NewRegistry(tools.WithTimeout(toolTimeout))
		runner, err := pipeline.NewFromFile(path, registry, pipeline.WithLogger(logger))
		if err != nil {
			return err
		}

		settings := runner.Settings()
		logger.Info("starting pipeline",
			"name", settings.Name,
			"output", settings.OutputFolder,
			"run_tools", len(settings.RunSet),
			"integrate_tools", len(settings.IntegrateSet))

		if err := runner.RunAll(cmd.Context()); err != nil {
			return err
		}
		logger.Info("pipeline complete", "output", settings.OutputFolder)
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&toolTimeout, "tool-timeout", 0,
		"per-invocation timeout for external tools (0 disables)")
	rootCmd.AddCommand(runCmd)
}
