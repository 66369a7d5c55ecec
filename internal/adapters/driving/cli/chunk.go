package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Manage the chunks of text documents",
}

var chunkAutoCmd = &cobra.Command{
	Use:   "auto [doc-id]",
	Short: "Split a document with the configured chunker",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunkAuto,
}

var chunkSetCmd = &cobra.Command{
	Use:   "set [doc-id]",
	Short: "Replace the chunks of a document with explicit spans",
	Long: `Replace all chunks of a document with the given character spans.

Spans are start:end pairs separated by commas, for example --spans 0:120,100:240.
Without --spans the document is left with no chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunkSet,
}

var chunkListCmd = &cobra.Command{
	Use:   "list [doc-id]",
	Short: "List the chunks of a document in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunkList,
}

var chunkGetCmd = &cobra.Command{
	Use:   "get [chunk-id]",
	Short: "Show a chunk",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunkGet,
}

var chunkSpans string

func init() {
	chunkSetCmd.Flags().StringVar(&chunkSpans, "spans", "", "Character spans as start:end pairs separated by commas")

	chunkCmd.AddCommand(chunkAutoCmd, chunkSetCmd, chunkListCmd, chunkGetCmd)
	rootCmd.AddCommand(chunkCmd)
}

func runChunkAuto(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	chunks, err := a.chunks.ChunkDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to chunk document: %w", err)
	}
	cmd.Printf("Created %d chunks\n", len(chunks))
	return nil
}

func runChunkSet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	text, err := a.documents.GetText(cmd.Context(), domain.TextRef{Target: domain.TargetDocument, ID: args[0]})
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	specs, err := parseSpans(text, chunkSpans)
	if err != nil {
		return err
	}
	chunks, err := a.chunks.Rechunk(cmd.Context(), args[0], specs)
	if err != nil {
		return fmt.Errorf("failed to rechunk document: %w", err)
	}
	cmd.Printf("Created %d chunks\n", len(chunks))
	return nil
}

func runChunkList(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	chunks, err := a.chunks.ListChunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(chunks) == 0 {
		cmd.Println("No chunks.")
		return nil
	}
	for i := range chunks {
		c := &chunks[i]
		cmd.Printf("  %3d  %s  %s  %q\n", c.Sequence, c.ID, spanString(c), preview(c.Text, 40))
	}
	cmd.Printf("\nTotal: %d chunks\n", len(chunks))
	return nil
}

func runChunkGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	c, err := a.chunks.GetChunk(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunk: %w", err)
	}
	cmd.Printf("Chunk %d of %s\n", c.Sequence, c.DocumentID)
	cmd.Printf("id: %s\n", c.ID)
	cmd.Printf("  Span: %s\n", spanString(c))
	printEmbeddings(cmd, c.Embeddings)
	cmd.Println()
	cmd.Println(c.Text)
	return nil
}

// parseSpans turns "0:10,10:20" into chunk specs cut from text. Offsets
// count characters, not bytes.
func parseSpans(text, s string) ([]domain.ChunkSpec, error) {
	runes := []rune(text)
	var specs []domain.ChunkSpec
	for _, part := range splitList(s) {
		from, to, ok := strings.Cut(part, ":")
		start, startErr := strconv.Atoi(from)
		end, endErr := strconv.Atoi(to)
		if !ok || startErr != nil || endErr != nil {
			return nil, fmt.Errorf("invalid span %q, expected start:end: %w", part, domain.ErrInvalidOffsets)
		}
		spec := domain.Span("", start, end)
		if err := spec.Validate(len(runes)); err != nil {
			return nil, err
		}
		spec.Text = string(runes[start:end])
		specs = append(specs, spec)
	}
	return specs, nil
}

func spanString(c *domain.Chunk) string {
	if c.Start == nil || c.End == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%d", *c.Start, *c.End)
}

func preview(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
