package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Fill embeddings and summaries through the configured AI provider",
}

var embedDocumentCmd = &cobra.Command{
	Use:   "document [doc-id]",
	Short: "Store the dense embedding of a text document",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbedDocument,
}

var embedChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Store dense embeddings for every chunk of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbedChunks,
}

var embedSummaryCmd = &cobra.Command{
	Use:   "summary [doc-id]",
	Short: "Summarise a text document and store the summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbedSummary,
}

var summaryWords int

func init() {
	embedSummaryCmd.Flags().IntVar(&summaryWords, "max-words", 100, "Maximum summary length in words")

	embedCmd.AddCommand(embedDocumentCmd, embedChunksCmd, embedSummaryCmd)
	rootCmd.AddCommand(embedCmd)
}

func runEmbedDocument(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.enrichment(cmd.Context()).EmbedDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to embed document: %w", err)
	}
	cmd.Printf("Embedded document %s\n", args[0])
	return nil
}

func runEmbedChunks(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	n, err := a.enrichment(cmd.Context()).EmbedChunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	cmd.Printf("Embedded %d chunks of %s\n", n, args[0])
	return nil
}

func runEmbedSummary(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	summary, err := a.enrichment(cmd.Context()).SummariseDocument(cmd.Context(), args[0], summaryWords)
	if err != nil {
		return fmt.Errorf("failed to summarise document: %w", err)
	}
	cmd.Println(summary)
	return nil
}
