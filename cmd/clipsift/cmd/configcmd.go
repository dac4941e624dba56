package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipsift/clipsift/configs"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage clipsift configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the annotated default configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("write config template: %w", err)
		}
		logger.Info("config written", "path", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
