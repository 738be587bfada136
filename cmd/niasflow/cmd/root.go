package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plasticlab/niasflow/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "niasflow",
	Short: "Non-targeted analysis pipeline for plastic-associated chemicals",
	Long: `niasflow orchestrates a multi-stage mass-spectrometry analysis pipeline:
external preprocessing, network construction, annotation and screening
tools run in depth order, and their results are integrated into an
annotated molecular network written as GraphML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		newLogger().Error("command failed", "error", err)
	}
	return err
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"pipeline configuration file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// newLogger builds the process logger from the persistent flags.
func newLogger() *logging.Logger {
	return logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: os.Stderr,
	})
}

// requireConfig resolves the configuration file path, flag first, then the
// first positional argument.
func requireConfig(args []string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", errMissingConfig
}
