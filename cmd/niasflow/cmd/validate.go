package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plasticlab/niasflow/internal/config"
	"github.com/plasticlab/niasflow/internal/tools"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a configuration against the requirement schema without running",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := requireConfig(args)
		if err != nil {
			return err
		}
		doc, err := config.LoadDocument(path)
		if err != nil {
			return err
		}
		settings, err := config.NewSettings(doc)
		if err != nil {
			return err
		}

		// Walk path registration exactly like a real run so requirements
		// on derived artifacts resolve the same way.
		registry := tools.NewRegistry()
		for _, tool := range settings.RunSet {
			registry.RegisterDerivedPaths(tool, settings)
		}
		for _, tool := range settings.IntegrateSet {
			registry.RegisterDerivedPaths(tool, settings)
		}

		if err := settings.CheckAllRequirements(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "configuration %s is valid\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "  run set:       %v\n", settings.RunSet)
		fmt.Fprintf(cmd.OutOrStdout(), "  integrate set: %v\n", settings.IntegrateSet)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
