// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/dfac/internal/config"
	"github.com/aidanlsb/dfac/internal/ui"
)

var (
	// Global flags
	configPath   string
	flowsDirFlag string

	// Resolved per invocation
	cfg *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "dfac",
	Short: "dfac - Dify Flow as Code",
	Long: `dfac keeps Dify workflow apps in version control as directories of
small linked files instead of one monolithic DSL document.

pull decomposes an app's workflow into nodes/, prompts/, and code/
files you can edit and review; push recomposes them and sends the
result back to the Dify console; build recomposes locally and prints
the DSL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch config or the console.
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			ui.DisableStyles()
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if flowsDirFlag != "" {
			cfg.FlowsDir = flowsDirFlag
		}

		return nil
	},
}

// Execute runs the CLI. Errors are printed here (with their status
// symbol, or already emitted as a JSON envelope) rather than by cobra.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errJSONReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default dfac.toml)")
	rootCmd.PersistentFlags().StringVar(&flowsDirFlag, "flows-dir", "", "Directory holding decomposed flows (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the config loaded for this invocation.
func getConfig() *config.Config {
	return cfg
}
