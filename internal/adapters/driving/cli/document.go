package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents",
	Long:  `Create, view, and delete text documents and images, and manage their creators.`,
}

var documentCreateTextCmd = &cobra.Command{
	Use:   "create-text",
	Short: "Create a text document",
	Args:  cobra.NoArgs,
	RunE:  runDocumentCreateText,
}

var documentCreateImageCmd = &cobra.Command{
	Use:   "create-image [file]",
	Short: "Create an image document from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentCreateImage,
}

var documentListCmd = &cobra.Command{
	Use:   "list [source-id]",
	Short: "List documents, optionally of one source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document with its payload and relations",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print the text of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document with its payloads, chunks and links",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentAttachCmd = &cobra.Command{
	Use:   "attach-creator [doc-id] [entity-id]",
	Short: "Record an entity as creator of a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentAttach,
}

var documentDetachCmd = &cobra.Command{
	Use:   "detach-creator [doc-id] [entity-id]",
	Short: "Remove a creator from a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentDetach,
}

var (
	docSource   string
	docText     string
	docFile     string
	docMetadata string
	imageWidth  int
	imageHeight int
)

func init() {
	documentCreateTextCmd.Flags().StringVarP(&docSource, "source", "s", "", "Source ID (required)")
	documentCreateTextCmd.Flags().StringVarP(&docText, "text", "t", "", "Document text")
	documentCreateTextCmd.Flags().StringVarP(&docFile, "file", "f", "", "Read the text from a file")
	documentCreateTextCmd.Flags().StringVarP(&docMetadata, "meta", "m", "", "Metadata as key=value pairs separated by commas")
	_ = documentCreateTextCmd.MarkFlagRequired("source")

	documentCreateImageCmd.Flags().StringVarP(&docSource, "source", "s", "", "Source ID (required)")
	documentCreateImageCmd.Flags().IntVar(&imageWidth, "width", -1, "Image width in pixels")
	documentCreateImageCmd.Flags().IntVar(&imageHeight, "height", -1, "Image height in pixels")
	_ = documentCreateImageCmd.MarkFlagRequired("source")

	documentCmd.AddCommand(
		documentCreateTextCmd,
		documentCreateImageCmd,
		documentListCmd,
		documentGetCmd,
		documentContentCmd,
		documentDeleteCmd,
		documentAttachCmd,
		documentDetachCmd,
	)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentCreateText(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	text := docText
	if docFile != "" {
		if docText != "" {
			return errors.New("--text and --file are mutually exclusive")
		}
		data, err := os.ReadFile(docFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", docFile, err)
		}
		text = string(data)
	}

	metadata, err := parseMetadata(docMetadata)
	if err != nil {
		return err
	}

	doc, err := a.documents.CreateTextDocument(cmd.Context(), docSource, text, metadata)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	cmd.Printf("Created text document (%d characters)\n", len([]rune(text)))
	cmd.Printf("id: %s\n", doc.ID)
	return nil
}

func runDocumentCreateImage(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var width, height *int
	if imageWidth >= 0 {
		width = &imageWidth
	}
	if imageHeight >= 0 {
		height = &imageHeight
	}

	doc, err := a.documents.CreateImage(cmd.Context(), docSource, width, height, data)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	cmd.Printf("Created image (%d bytes)\n", len(data))
	cmd.Printf("id: %s\n", doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	var sourceID string
	if len(args) > 0 {
		sourceID = args[0]
	}

	docs, err := a.documents.ListDocuments(cmd.Context(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  %-13s source=%s\n", docs[i].ID, docs[i].Kind, docs[i].SourceID)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	view, err := a.documents.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document %s\n", view.Kind)
	cmd.Printf("id: %s\n", view.ID)
	cmd.Printf("  Source:   %s\n", view.SourceID)
	cmd.Printf("  Created:  %s\n", view.Created.Format(timeLayout))
	cmd.Printf("  Modified: %s\n", view.Modified.Format(timeLayout))
	printMetadata(cmd, view.Metadata)
	printEmbeddings(cmd, view.Embeddings)

	switch {
	case view.Text != nil:
		cmd.Printf("  Text: %d characters, %d chunks\n", len([]rune(view.Text.Text)), view.ChunkCount)
	case view.Image != nil:
		cmd.Printf("  Image: %d bytes, %s x %s\n", len(view.Image.Data),
			optionalInt(view.Image.Width), optionalInt(view.Image.Height))
	}
	if view.Message != nil {
		cmd.Printf("  Message: %s -> %s at %s\n", view.Message.SenderID, view.Message.RecipientID,
			view.Message.EventDate.Format(timeLayout))
	}
	if view.Meeting != nil {
		cmd.Printf("  Meeting at %s\n", view.Meeting.EventDate.Format(timeLayout))
		printIDs(cmd, "Participants", view.Meeting.ParticipantIDs)
	}
	printIDs(cmd, "Creators", view.CreatorIDs)
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	text, err := a.documents.GetText(cmd.Context(), domain.TextRef{Target: domain.TargetDocument, ID: args[0]})
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}
	cmd.Println(text)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.documents.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentAttach(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.documents.AttachCreator(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to attach creator: %w", err)
	}
	cmd.Printf("%s created %s\n", args[1], args[0])
	return nil
}

func runDocumentDetach(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.documents.DetachCreator(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to detach creator: %w", err)
	}
	cmd.Printf("%s no longer a creator of %s\n", args[1], args[0])
	return nil
}

// parseMetadata reads "k=v,k2=v2". Values that parse as integers or floats
// are stored as numbers.
func parseMetadata(s string) (domain.Metadata, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	m := make(domain.Metadata)
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata pair %q, expected key=value: %w", pair, domain.ErrInvalidInput)
		}
		value = strings.TrimSpace(value)
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			m[key] = n
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			m[key] = f
		} else {
			m[key] = value
		}
	}
	return m, nil
}

func printMetadata(cmd *cobra.Command, m domain.Metadata) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cmd.Println("  Metadata:")
	for _, k := range keys {
		cmd.Printf("    %s: %v\n", k, m[k])
	}
}

func optionalInt(i *int) string {
	if i == nil {
		return "?"
	}
	return strconv.Itoa(*i)
}
