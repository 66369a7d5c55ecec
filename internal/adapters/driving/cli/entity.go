package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Manage persons and organizations",
}

var entityCreateCmd = &cobra.Command{
	Use:   "create [person|organization] [name]",
	Short: "Create an entity",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityCreate,
}

var entityListCmd = &cobra.Command{
	Use:   "list [person|organization]",
	Short: "List entities, optionally of one kind",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEntityList,
}

var entityGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show an entity with its relations",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntityGet,
}

var entityDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an entity and its links",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntityDelete,
}

var entityJoinCmd = &cobra.Command{
	Use:   "join [person-id] [organization-id]",
	Short: "Add a person to an organization",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityJoin,
}

var entityLeaveCmd = &cobra.Command{
	Use:   "leave [person-id] [organization-id]",
	Short: "Remove a person from an organization",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityLeave,
}

var entityNestCmd = &cobra.Command{
	Use:   "nest [parent-id] [child-id]",
	Short: "Make an organization the child of another",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityNest,
}

var entityUnnestCmd = &cobra.Command{
	Use:   "unnest [parent-id] [child-id]",
	Short: "Remove a hierarchy edge",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityUnnest,
}

var entityLinkSourceCmd = &cobra.Command{
	Use:   "link-source [entity-id] [source-id]",
	Short: "Record that an entity was seen in a source",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntityLinkSource,
}

func init() {
	entityCmd.AddCommand(
		entityCreateCmd,
		entityListCmd,
		entityGetCmd,
		entityDeleteCmd,
		entityJoinCmd,
		entityLeaveCmd,
		entityNestCmd,
		entityUnnestCmd,
		entityLinkSourceCmd,
	)
	rootCmd.AddCommand(entityCmd)
}

func runEntityCreate(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	e, err := a.entities.CreateEntity(cmd.Context(), domain.EntityKind(args[0]), args[1])
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}
	cmd.Printf("Created %s %s\n", e.Kind, e.Name)
	cmd.Printf("id: %s\n", e.ID)
	return nil
}

func runEntityList(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	var kind domain.EntityKind
	if len(args) > 0 {
		kind = domain.EntityKind(args[0])
	}
	entities, err := a.entities.ListEntities(cmd.Context(), kind)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}
	if len(entities) == 0 {
		cmd.Println("No entities.")
		return nil
	}
	for _, e := range entities {
		cmd.Printf("  %-13s %-30s %s\n", e.Kind, e.Name, e.ID)
	}
	cmd.Printf("\nTotal: %d entities\n", len(entities))
	return nil
}

func runEntityGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	view, err := a.entities.GetEntity(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get entity: %w", err)
	}

	cmd.Printf("%s %s\n", view.Kind, view.Name)
	cmd.Printf("id: %s\n", view.ID)
	cmd.Printf("  Created:  %s\n", view.Created.Format(timeLayout))
	cmd.Printf("  Modified: %s\n", view.Modified.Format(timeLayout))
	printEmbeddings(cmd, view.Embeddings)
	printIDs(cmd, "Sources", view.SourceIDs)
	if view.IsOrganization() {
		printIDs(cmd, "Members", view.Members)
		printIDs(cmd, "Parents", view.Parents)
		printIDs(cmd, "Children", view.Children)
	} else {
		printIDs(cmd, "Organizations", view.Organizations)
	}
	return nil
}

func runEntityDelete(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.DeleteEntity(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	cmd.Printf("Deleted entity %s\n", args[0])
	return nil
}

func runEntityJoin(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.LinkMembership(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	cmd.Printf("%s is a member of %s\n", args[0], args[1])
	return nil
}

func runEntityLeave(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.UnlinkMembership(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	cmd.Printf("%s is no longer a member of %s\n", args[0], args[1])
	return nil
}

func runEntityNest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.LinkHierarchy(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to link hierarchy: %w", err)
	}
	cmd.Printf("%s is a child of %s\n", args[1], args[0])
	return nil
}

func runEntityUnnest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.UnlinkHierarchy(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to unlink hierarchy: %w", err)
	}
	cmd.Printf("%s is no longer a child of %s\n", args[1], args[0])
	return nil
}

func runEntityLinkSource(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.entities.LinkSource(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to link source: %w", err)
	}
	cmd.Printf("%s linked to source %s\n", args[0], args[1])
	return nil
}

// timeLayout is used for every timestamp the CLI prints or parses.
const timeLayout = time.RFC3339

func printIDs(cmd *cobra.Command, label string, ids []string) {
	if len(ids) == 0 {
		cmd.Printf("  %s: none\n", label)
		return
	}
	cmd.Printf("  %s: %s\n", label, strings.Join(ids, ", "))
}

func printEmbeddings(cmd *cobra.Command, e domain.Embeddings) {
	cmd.Printf("  Embeddings: sparse=%d bytes, dense=%d bytes\n", len(e.Sparse), len(e.Dense))
	if e.Summary != nil {
		cmd.Printf("  Summary: %s\n", *e.Summary)
	}
}
