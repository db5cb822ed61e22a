// Package cli provides the cobra command tree for cytoset.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// MetricsWriter writes collected metrics to a node_exporter textfile.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// Services holds the driving ports used by the commands.
type Services struct {
	Analysis driving.AnalysisService
	Runs     driving.RunHistory
	Settings driving.SettingsService
	Metrics  MetricsWriter
}

var (
	analysisService driving.AnalysisService
	runHistory      driving.RunHistory
	settingsService driving.SettingsService
	metricsWriter   MetricsWriter
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cytoset",
	Short: "Classify flow cytometry particles into sets",
	Long: `cytoset resolves the particle sets of a flow cytometry measurement and
estimates the sample volume represented by each set's imaged particles.

Set definitions come from the data file's imaging configuration or from an
override file (.xml or .iif).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services used by the commands. Nil fields leave
// the matching commands unavailable.
func SetServices(s Services) {
	analysisService = s.Analysis
	runHistory = s.Runs
	settingsService = s.Settings
	metricsWriter = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
