package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved analysis runs",
	Long: `List, show and delete analysis runs saved to the run history.

Run history is enabled with: cytoset settings set storage.enabled true`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs (0 for all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

var errRunHistoryDisabled = errors.New("run history not enabled (cytoset settings set storage.enabled true)")

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runHistory == nil {
		return errRunHistoryDisabled
	}

	runs, err := runHistory.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No saved runs.")
		return nil
	}

	w := cmd.OutOrStdout()
	t := newTable(w, "ID", "File", "Imaging mode", "Analysed volume (µL)", "Created")
	for i := range runs {
		t.Row(
			runs[i].ID,
			runs[i].Filename,
			runs[i].ImagingMode.String(),
			fmt.Sprintf("%g", runs[i].AnalyzedVolume),
			runs[i].CreatedAt.Local().Format(time.DateTime),
		)
	}
	cmd.Println(t.String())
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runHistory == nil {
		return errRunHistoryDisabled
	}

	run, err := runHistory.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("failed to get run: %w", err)
	}

	cmd.Printf("Run:             %s\n", run.ID)
	cmd.Printf("File:            %s\n", run.Filename)
	if run.OverridePath != "" {
		cmd.Printf("Override:        %s\n", run.OverridePath)
	}
	cmd.Printf("Imaging mode:    %s\n", run.ImagingMode.Description())
	cmd.Printf("Analysed volume: %g µL\n", run.AnalyzedVolume)
	cmd.Printf("Exclusive sets:  %t\n", run.ExclusiveSets)
	cmd.Printf("Created:         %s\n", run.CreatedAt.Local().Format(time.DateTime))
	cmd.Println()
	cmd.Println(renderStatistics(cmd.OutOrStdout(), run.Statistics))
	cmd.Println()
	cmd.Println(run.Definition)
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if runHistory == nil {
		return errRunHistoryDisabled
	}

	if err := runHistory.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("failed to delete run: %w", err)
	}

	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}
