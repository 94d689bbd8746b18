package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(threadCmd)
}

var threadCmd = &cobra.Command{
	Use:   "thread <message id> <dialog id>",
	Short: "Shows every message of a conversation.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		messages, err := client.Thread(cmd.Context(), session, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to get thread: %w", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Date", "From", "Message", "Images"})
		for _, m := range messages {
			t.AppendRow(table.Row{
				formatDate(m.Date),
				m.SenderName,
				m.Message,
				strings.Join(m.Images, "\n"),
			})
		}
		t.Render()
		return nil
	},
}
