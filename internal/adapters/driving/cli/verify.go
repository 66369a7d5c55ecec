package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the database for integrity problems",
	Long: `Scan every table for broken invariants: missing or extra payload rows,
documents promoted twice, dangling links, role mismatches, hierarchy cycles,
chunk gaps and bad offsets, and conversations with invalid date ranges.

Exits with an error when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	report, err := a.integrity.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}
	if report.OK() {
		cmd.Println("No issues found.")
		return nil
	}
	for _, issue := range report.Issues {
		cmd.Printf("  %s\n", issue)
	}
	cmd.Printf("\nTotal: %d issues\n", len(report.Issues))
	return report.Err()
}
