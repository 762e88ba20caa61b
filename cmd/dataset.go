package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDatasetCmd() *cobra.Command {
	var (
		datasetPath string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Enrich records from an external structured dataset",
		Long: `Builds normalized-name and normalized-site indexes over the dataset,
matches every target record with empty fields against them (richer
candidates win ties), and patches only the fields that are currently
empty. Unmatched records are reported, not treated as errors.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.runner.RunDataset(cmd.Context(), datasetPath, dryRun); err != nil {
				return fmt.Errorf("run dataset enrichment: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&datasetPath, "nodes", "", "path to the dataset JSON file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan and report without writing to the store")
	_ = cmd.MarkFlagRequired("nodes")
	return cmd
}
