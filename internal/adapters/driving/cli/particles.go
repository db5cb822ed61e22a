package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/export"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

var (
	particlesSets   string
	particlesFormat string
	particlesOutput string
)

var particlesCmd = &cobra.Command{
	Use:   "particles [file]",
	Short: "List the sets each particle belongs to",
	Long: `Prints every particle's id, index and the names of the sets containing it.

A file without set information still lists its particles, with no set list
("-" in tables, null in JSON, known=false in CSV).`,
	Args: cobra.ExactArgs(1),
	RunE: runParticles,
}

func init() {
	particlesCmd.Flags().StringVarP(&particlesSets, "sets", "s", "", "override set definition file (.xml or .iif)")
	particlesCmd.Flags().StringVarP(&particlesFormat, "format", "f", "", "output format: json, csv or table")
	particlesCmd.Flags().StringVarP(&particlesOutput, "output", "o", "", "write output to a file instead of stdout")
	rootCmd.AddCommand(particlesCmd)
}

func runParticles(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	opts, err := outputOptions(cmd, particlesFormat, true, 0)
	if err != nil {
		return err
	}

	records, err := analysisService.Memberships(cmd.Context(), domain.AnalysisRequest{
		DataPath:     args[0],
		OverridePath: particlesSets,
	})
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}

	w, closeOutput, err := openOutput(cmd, particlesOutput)
	if err != nil {
		return err
	}
	defer closeOutput()

	if opts.format == domain.ExportFormatTable {
		if len(records) == 0 {
			fmt.Fprintln(w, "No particles.")
			return nil
		}
		fmt.Fprintln(w, renderMemberships(w, records))
		return nil
	}

	exporters, err := export.NewExporters(opts.format)
	if err != nil {
		return err
	}
	if err := exporters.Memberships.ExportMemberships(w, filepath.Base(args[0]), records); err != nil {
		return fmt.Errorf("failed to export memberships: %w", err)
	}
	return nil
}
