package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/export"
	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/logger"
)

var (
	analyzeSets        string
	analyzeFormat      string
	analyzeOutput      string
	analyzeParticles   bool
	analyzeJobs        int
	analyzeMetricsFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyse particle sets in data files",
	Long: `Resolves the particle sets of each data file and reports, per set, the
particle count, the imaged particle count and the imaged sample volume.

Sets come from the file's imaging configuration unless --sets names an
override definition (.xml or .iif). Several files are analysed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSets, "sets", "s", "", "override set definition file (.xml or .iif)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "output format: json, csv or table")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write output to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeParticles, "particles", false, "include per-particle set membership")
	analyzeCmd.Flags().IntVarP(&analyzeJobs, "jobs", "j", 0, "maximum files analysed concurrently")
	analyzeCmd.Flags().StringVar(&analyzeMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	opts, err := outputOptions(cmd, analyzeFormat, analyzeParticles, analyzeJobs)
	if err != nil {
		return err
	}

	reqs := make([]domain.AnalysisRequest, len(args))
	for i, path := range args {
		reqs[i] = domain.AnalysisRequest{
			DataPath:         path,
			OverridePath:     analyzeSets,
			IncludeParticles: opts.particles,
		}
	}

	results, err := analysisService.AnalyzeAll(cmd.Context(), reqs, opts.jobs)
	writeMetrics(cmd, analyzeMetricsFile)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	w, closeOutput, err := openOutput(cmd, analyzeOutput)
	if err != nil {
		return err
	}
	defer closeOutput()

	return writeResults(w, opts.format, results)
}

// writeResults writes analysis results in the requested format.
func writeResults(w io.Writer, format domain.ExportFormat, results []*domain.AnalysisResult) error {
	if format == domain.ExportFormatTable {
		return writeResultTables(w, results)
	}

	exporters, err := export.NewExporters(format)
	if err != nil {
		return err
	}
	if err := exporters.Results.Export(w, results); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	return nil
}

func writeResultTables(w io.Writer, results []*domain.AnalysisResult) error {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", res.Filename, muted(w, "("+res.ImagingMode.Description()+")"))
		if res.RunID != "" {
			fmt.Fprintln(w, muted(w, "run "+res.RunID))
		}
		fmt.Fprintln(w, renderStatistics(w, res.Info.Statistics))
		if len(res.Particles) > 0 {
			fmt.Fprintln(w, renderMemberships(w, res.Particles))
		}
	}
	return nil
}

// options are the effective output settings of a command: flags win over
// stored settings, stored settings win over defaults.
type options struct {
	format    domain.ExportFormat
	particles bool
	jobs      int
}

func outputOptions(cmd *cobra.Command, format string, particles bool, jobs int) (options, error) {
	opts := options{format: domain.ExportFormatJSON, jobs: 1}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return opts, fmt.Errorf("failed to get settings: %w", err)
		}
		opts.format = settings.Export.Format
		opts.particles = settings.Export.Particles
		opts.jobs = settings.Analysis.Jobs
	}

	if format != "" {
		opts.format = domain.ExportFormat(format)
		if !opts.format.IsValid() {
			return opts, fmt.Errorf("%w: unknown format %q (use json, csv or table)", domain.ErrInvalidInput, format)
		}
	}
	if f := cmd.Flags().Lookup("particles"); f != nil && f.Changed {
		opts.particles = particles
	}
	if jobs > 0 {
		opts.jobs = jobs
	}
	return opts, nil
}

// openOutput returns the command's stdout, or a created file when path is set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			logger.Warn("close %s: %v", path, err)
		}
	}, nil
}

// writeMetrics writes the metrics textfile if a path is configured. Failures
// are logged so they never mask the command's own result.
func writeMetrics(cmd *cobra.Command, path string) {
	if metricsWriter == nil {
		return
	}
	if path == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			path = settings.Metrics.TextfilePath
		}
	}
	if path == "" {
		return
	}
	if err := metricsWriter.WriteTextfile(path); err != nil {
		logger.Error("failed to write metrics: %v", err)
		return
	}
	logger.Debug("Wrote metrics to %s (%s)", path, cmd.Name())
}
