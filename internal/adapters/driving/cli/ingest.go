package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Import matching files of a directory as text documents",
	Long: `Walk a directory and create one text document per matching file under
a new source of type "file". File paths and sizes are stored as metadata.

Files that are not valid UTF-8 text are skipped and listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var (
	ingestGlob    string
	ingestNoChunk bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestGlob, "glob", "g", "", "File pattern relative to the directory (default from settings)")
	ingestCmd.Flags().BoolVar(&ingestNoChunk, "no-chunk", false, "Do not chunk the imported documents")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	opts := domain.IngestOptions{
		Root:  args[0],
		Glob:  a.settings.Ingest.Glob,
		Chunk: a.settings.Ingest.Chunk && !ingestNoChunk,
	}
	if ingestGlob != "" {
		opts.Glob = ingestGlob
	}

	result, err := a.ingest.IngestDirectory(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", args[0], err)
	}

	cmd.Printf("Imported %d documents with %d chunks\n", len(result.DocumentIDs), result.Chunks)
	for _, path := range result.Skipped {
		cmd.Printf("  skipped %s\n", path)
	}
	cmd.Printf("id: %s\n", result.SourceID)
	return nil
}
