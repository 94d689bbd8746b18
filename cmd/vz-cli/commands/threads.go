package commands

import (
	"fmt"

	"vzchat-backend/internal/scrapers/vz"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(outboxCmd)
}

func renderItems(items []vz.MessageBoxItem) {
	t := newTable()
	t.AppendHeader(table.Row{"Date", "With", "Subject", "Flags", "Message", "Dialog"})
	for _, item := range items {
		flags := ""
		if item.Unread {
			flags += "unread "
		}
		if item.Deleted {
			flags += "deleted"
		}
		t.AppendRow(table.Row{
			formatDate(item.Date),
			item.User.Name,
			item.Subject,
			flags,
			item.Id,
			item.DialogId,
		})
	}
	t.Render()
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Lists every conversation, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		threads, err := client.AllThreads(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to get threads: %w", err)
		}

		items := make([]vz.MessageBoxItem, len(threads))
		for i, thread := range threads {
			items[i] = thread.MessageBoxItem
		}
		renderItems(items)
		return nil
	},
}

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Lists every item of the outbox.",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		items, err := client.Outbox(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to get outbox: %w", err)
		}
		renderItems(items)
		return nil
	},
}
