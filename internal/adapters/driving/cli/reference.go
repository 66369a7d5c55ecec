package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var sourceTypeCmd = &cobra.Command{
	Use:   "source-type",
	Short: "Manage source types",
}

var sourceTypeCreateCmd = &cobra.Command{
	Use:   "create [slug]",
	Short: "Create a source type",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceTypeCreate,
}

var sourceTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List source types",
	Args:  cobra.NoArgs,
	RunE:  runSourceTypeList,
}

var sourceTypeGetCmd = &cobra.Command{
	Use:   "get [id-or-slug]",
	Short: "Show a source type",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceTypeGet,
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage sources",
}

var sourceCreateCmd = &cobra.Command{
	Use:   "create [source-type-id]",
	Short: "Create a source of an existing type",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceCreate,
}

var sourceEnsureCmd = &cobra.Command{
	Use:   "ensure [slug]",
	Short: "Create a source, creating its type if needed",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceEnsure,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceGet,
}

func init() {
	sourceTypeCmd.AddCommand(sourceTypeCreateCmd, sourceTypeListCmd, sourceTypeGetCmd)
	sourceCmd.AddCommand(sourceCreateCmd, sourceEnsureCmd, sourceListCmd, sourceGetCmd)
	rootCmd.AddCommand(sourceTypeCmd, sourceCmd)
}

func runSourceTypeCreate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	st, err := a.reference.CreateSourceType(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create source type: %w", err)
	}
	cmd.Printf("Created source type %s\n", st.Slug)
	cmd.Printf("id: %s\n", st.ID)
	return nil
}

func runSourceTypeList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	types, err := a.reference.ListSourceTypes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list source types: %w", err)
	}
	if len(types) == 0 {
		cmd.Println("No source types.")
		return nil
	}
	for _, st := range types {
		cmd.Printf("  %-20s %s\n", st.Slug, st.ID)
	}
	cmd.Printf("\nTotal: %d source types\n", len(types))
	return nil
}

// runSourceTypeGet accepts an ID or a slug.
func runSourceTypeGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	st, err := a.reference.GetSourceType(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		st, err = a.reference.GetSourceTypeBySlug(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get source type: %w", err)
	}
	cmd.Printf("Source type %s\n", st.Slug)
	cmd.Printf("id: %s\n", st.ID)
	return nil
}

func runSourceCreate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	src, err := a.reference.CreateSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	cmd.Printf("Created source of type %s\n", src.SourceTypeID)
	cmd.Printf("id: %s\n", src.ID)
	return nil
}

func runSourceEnsure(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	src, err := a.reference.EnsureSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	cmd.Printf("Created source of type %s\n", args[0])
	cmd.Printf("id: %s\n", src.ID)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	sources, err := a.reference.ListSources(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No sources.")
		return nil
	}
	for _, src := range sources {
		cmd.Printf("  %s  type=%s\n", src.ID, src.SourceTypeID)
	}
	cmd.Printf("\nTotal: %d sources\n", len(sources))
	return nil
}

func runSourceGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	src, err := a.reference.GetSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}
	cmd.Printf("Source %s\n", src.ID)
	cmd.Printf("  Type: %s\n", src.SourceTypeID)
	return nil
}
