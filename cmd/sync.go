package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy fields from the source table and dedupe the target",
		Long: `Copies the mapped fields from the source table into the target table
keyed on normalized company name. Existing records get only their empty
fields patched; unmatched source rows become new records. A final pass
collapses duplicate keys, keeping the most complete record.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.runner.RunSync(cmd.Context(), dryRun); err != nil {
				return fmt.Errorf("run table sync: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan without writing to the store")
	return cmd
}
