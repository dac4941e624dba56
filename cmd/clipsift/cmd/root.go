// Package cmd implements the clipsift CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipsift/clipsift/internal/config"
	"github.com/clipsift/clipsift/internal/logging"
	"github.com/clipsift/clipsift/internal/persons"
	"github.com/clipsift/clipsift/internal/telemetry"
)

// metrics collects per-process fusion telemetry, surfaced at debug level.
var metrics = telemetry.NewMetrics()

var (
	cfgPath    string
	logLevel   string
	personsDB  string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clipsift",
	Short: "Multimodal media search fusion",
	Long: `clipsift fuses per-modality similarity matches (visual, audio, speech)
into a single ranked, temporally-precise result set.

This binary is an offline harness around the fusion library: match lists
come from JSON files produced by the per-modality search collaborators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger = logging.Setup(cfg.Log.Level, os.Stderr)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&personsDB, "persons", "", "path to person directory sqlite database")
}

// openDirectory opens the person directory if configured, or returns nil.
func openDirectory() (persons.Directory, func(), error) {
	if personsDB == "" {
		return nil, func() {}, nil
	}
	dir, err := persons.OpenSQLiteDirectory(personsDB)
	if err != nil {
		return nil, nil, err
	}
	return dir, func() { _ = dir.Close() }, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
