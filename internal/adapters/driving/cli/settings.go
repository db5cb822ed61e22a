package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure output, analysis, run history and metrics settings.

Settings are stored in config.toml in the cytoset config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting.

Available keys:
  export.format     - json, csv or table
  export.particles  - include per-particle membership (true/false)
  analysis.jobs     - maximum files analysed concurrently
  storage.enabled   - save runs to the history database (true/false)
  storage.data_dir  - directory of the history database
  metrics.textfile  - Prometheus textfile path (empty disables)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  Format: %s\n", settings.Export.Format)
	cmd.Printf("  Particles: %t\n", settings.Export.Particles)
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Jobs: %d\n", settings.Analysis.Jobs)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Enabled: %t\n", settings.Storage.Enabled)
	cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	cmd.Println()

	cmd.Println("[Metrics]")
	if settings.Metrics.TextfilePath != "" {
		cmd.Printf("  Textfile: %s\n", settings.Metrics.TextfilePath)
	} else {
		cmd.Println("  Textfile: (disabled)")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s (keys: %s): %w", key, strings.Join(settingsService.Keys(), ", "), err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}
