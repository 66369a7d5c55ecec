package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Promote text documents to messages and meetings",
}

var eventMessageCmd = &cobra.Command{
	Use:   "message [doc-id]",
	Short: "Promote a text document to a message",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventMessage,
}

var eventMeetingCmd = &cobra.Command{
	Use:   "meeting [doc-id]",
	Short: "Promote a text document to a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventMeeting,
}

var eventAddParticipantCmd = &cobra.Command{
	Use:   "add-participant [meeting-id] [entity-id]",
	Short: "Add a participant to a meeting",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventAddParticipant,
}

var eventRemoveParticipantCmd = &cobra.Command{
	Use:   "remove-participant [meeting-id] [entity-id]",
	Short: "Remove a participant from a meeting",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventRemoveParticipant,
}

var (
	eventDate         string
	eventSender       string
	eventRecipient    string
	eventContent      string
	eventTranscript   string
	eventParticipants string
)

func init() {
	eventMessageCmd.Flags().StringVar(&eventSender, "sender", "", "Sending entity ID (required)")
	eventMessageCmd.Flags().StringVar(&eventRecipient, "recipient", "", "Receiving entity ID (required)")
	eventMessageCmd.Flags().StringVar(&eventContent, "content", "", "Message content")
	eventMessageCmd.Flags().StringVar(&eventDate, "date", "", "Event date, RFC 3339 (default now)")
	_ = eventMessageCmd.MarkFlagRequired("sender")
	_ = eventMessageCmd.MarkFlagRequired("recipient")

	eventMeetingCmd.Flags().StringVar(&eventDate, "date", "", "Event date, RFC 3339 (default now)")
	eventMeetingCmd.Flags().StringVar(&eventTranscript, "transcript", "", "Meeting transcript")
	eventMeetingCmd.Flags().StringVar(&eventParticipants, "participants", "", "Participant entity IDs separated by commas")

	eventCmd.AddCommand(eventMessageCmd, eventMeetingCmd, eventAddParticipantCmd, eventRemoveParticipantCmd)
	rootCmd.AddCommand(eventCmd)
}

func runEventMessage(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	date, err := parseDate(eventDate)
	if err != nil {
		return err
	}
	msg, err := a.events.PromoteToMessage(cmd.Context(), args[0], eventSender, eventRecipient, eventContent, date)
	if err != nil {
		return fmt.Errorf("failed to promote to message: %w", err)
	}
	cmd.Printf("Message %s -> %s at %s\n", msg.SenderID, msg.RecipientID, msg.EventDate.Format(timeLayout))
	cmd.Printf("id: %s\n", msg.ID)
	return nil
}

func runEventMeeting(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	date, err := parseDate(eventDate)
	if err != nil {
		return err
	}
	var transcript *string
	if cmd.Flags().Changed("transcript") {
		transcript = &eventTranscript
	}

	meeting, err := a.events.PromoteToMeeting(cmd.Context(), args[0], date, transcript, splitList(eventParticipants))
	if err != nil {
		return fmt.Errorf("failed to promote to meeting: %w", err)
	}
	cmd.Printf("Meeting at %s with %d participants\n", meeting.EventDate.Format(timeLayout), len(meeting.ParticipantIDs))
	cmd.Printf("id: %s\n", meeting.ID)
	return nil
}

func runEventAddParticipant(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.events.AddParticipant(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	cmd.Printf("%s participates in %s\n", args[1], args[0])
	return nil
}

func runEventRemoveParticipant(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.events.RemoveParticipant(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	cmd.Printf("%s no longer participates in %s\n", args[1], args[0])
	return nil
}

// parseDate reads an RFC 3339 timestamp. Empty means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected RFC 3339: %w", s, err)
	}
	return t, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
