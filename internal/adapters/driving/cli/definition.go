package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

var definitionSets string

var definitionCmd = &cobra.Command{
	Use:   "definition [file]",
	Short: "Print the resolved set definition",
	Long: `Resolves the sets of a data file and prints their serialized definition,
including the instrument configuration date.`,
	Args: cobra.ExactArgs(1),
	RunE: runDefinition,
}

func init() {
	definitionCmd.Flags().StringVarP(&definitionSets, "sets", "s", "", "override set definition file (.xml or .iif)")
	rootCmd.AddCommand(definitionCmd)
}

func runDefinition(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	result, err := analysisService.Analyze(cmd.Context(), domain.AnalysisRequest{
		DataPath:     args[0],
		OverridePath: definitionSets,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve sets: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Info.Definition)
	return nil
}
