package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the tables of the database",
	Long: `Opens the database, applying any pending migrations, and prints every
table with its columns.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	tables, err := a.store.Schema(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	cmd.Printf("Database: %s\n\n", a.store.Path())
	for _, table := range tables {
		cmd.Printf("%s\n", table.Name)
		for _, col := range table.Columns {
			var flags []string
			if col.PrimaryKey {
				flags = append(flags, "PK")
			}
			if col.NotNull {
				flags = append(flags, "NOT NULL")
			}
			line := fmt.Sprintf("  %-18s %s", col.Name, col.Type)
			if len(flags) > 0 {
				line += " " + strings.Join(flags, " ")
			}
			cmd.Println(line)
		}
	}
	cmd.Printf("\nTotal: %d tables\n", len(tables))
	return nil
}
