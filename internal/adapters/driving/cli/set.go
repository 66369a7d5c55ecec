package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage document sets and conversations",
}

var setCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a generic document set",
	Args:  cobra.NoArgs,
	RunE:  runSetCreate,
}

var setConversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Create a conversation spanning a date range",
	Args:  cobra.NoArgs,
	RunE:  runSetConversation,
}

var setAddCmd = &cobra.Command{
	Use:   "add [set-id] [doc-id]",
	Short: "Add a document to a set, or move it to a new position",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetAdd,
}

var setRemoveCmd = &cobra.Command{
	Use:   "remove [set-id] [doc-id]",
	Short: "Remove a document from a set",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetRemove,
}

var setGetCmd = &cobra.Command{
	Use:   "get [set-id]",
	Short: "Show a set with its members in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetGet,
}

var setListCmd = &cobra.Command{
	Use:   "list",
	Short: "List document sets",
	Args:  cobra.NoArgs,
	RunE:  runSetList,
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete [set-id]",
	Short: "Delete a set. Its documents are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetDelete,
}

var (
	setStart string
	setEnd   string
	setOrder int
)

func init() {
	setConversationCmd.Flags().StringVar(&setStart, "start", "", "Start date, RFC 3339 (required)")
	setConversationCmd.Flags().StringVar(&setEnd, "end", "", "End date, RFC 3339 (required)")
	_ = setConversationCmd.MarkFlagRequired("start")
	_ = setConversationCmd.MarkFlagRequired("end")

	setAddCmd.Flags().IntVarP(&setOrder, "order", "o", 0, "Position of the document in the set")

	setCmd.AddCommand(setCreateCmd, setConversationCmd, setAddCmd, setRemoveCmd, setGetCmd, setListCmd, setDeleteCmd)
	rootCmd.AddCommand(setCmd)
}

func runSetCreate(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	set, err := a.sets.CreateDocumentSet(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create document set: %w", err)
	}
	cmd.Println("Created document set")
	cmd.Printf("id: %s\n", set.ID)
	return nil
}

func runSetConversation(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	start, err := parseDate(setStart)
	if err != nil {
		return err
	}
	end, err := parseDate(setEnd)
	if err != nil {
		return err
	}
	set, err := a.sets.CreateConversation(cmd.Context(), start, end)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	cmd.Printf("Created conversation %s to %s\n", start.Format(timeLayout), end.Format(timeLayout))
	cmd.Printf("id: %s\n", set.ID)
	return nil
}

func runSetAdd(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.sets.AddDocument(cmd.Context(), args[0], args[1], setOrder); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	cmd.Printf("%s is at position %d of %s\n", args[1], setOrder, args[0])
	return nil
}

func runSetRemove(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.sets.RemoveDocument(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	cmd.Printf("Removed %s from %s\n", args[1], args[0])
	return nil
}

func runSetGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	view, err := a.sets.GetDocumentSet(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document set: %w", err)
	}
	cmd.Printf("Document set %s\n", view.Kind)
	cmd.Printf("id: %s\n", view.ID)
	if view.StartDate != nil && view.EndDate != nil {
		cmd.Printf("  From %s to %s\n", view.StartDate.Format(timeLayout), view.EndDate.Format(timeLayout))
	}
	if len(view.Members) == 0 {
		cmd.Println("  No documents.")
		return nil
	}
	for _, m := range view.Members {
		cmd.Printf("  %4d  %s\n", m.Order, m.DocumentID)
	}
	return nil
}

func runSetList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	sets, err := a.sets.ListDocumentSets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list document sets: %w", err)
	}
	if len(sets) == 0 {
		cmd.Println("No document sets.")
		return nil
	}
	for _, s := range sets {
		cmd.Printf("  %-13s %s\n", s.Kind, s.ID)
	}
	cmd.Printf("\nTotal: %d document sets\n", len(sets))
	return nil
}

func runSetDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.sets.DeleteDocumentSet(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document set: %w", err)
	}
	cmd.Printf("Deleted document set %s\n", args[0])
	return nil
}
