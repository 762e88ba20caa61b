package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCrawlCmd() *cobra.Command {
	var (
		limit  int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Enrich records by crawling each company's own website",
		Long: `Selects records with empty target fields and a website, crawls a
bounded set of pages per site (homepage plus about/team/press-style
candidates), extracts location, employee count, funding, and an executive
email, and patches only the fields that are currently empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.runner.RunWeb(cmd.Context(), limit, dryRun); err != nil {
				return fmt.Errorf("run web enrichment: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum records to process this run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan and report without writing to the store")
	return cmd
}
