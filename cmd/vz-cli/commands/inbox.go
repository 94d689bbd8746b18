package commands

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"vzchat-backend/internal/scrapers/vz"

	"github.com/jordan-wright/email"
	"github.com/spf13/cobra"
)

var (
	inboxUnread *bool
	inboxNotify *bool
)

func init() {
	inboxUnread = inboxCmd.Flags().Bool("unread", false, "Only list unread items.")
	inboxNotify = inboxCmd.Flags().Bool("notify", false, "Mail a digest of the unread items to smtp.notify_address, requires --unread.")
	rootCmd.AddCommand(inboxCmd)
}

// checkNotify rejects --notify without --unread, the digest only lists new items.
func checkNotify(unread, notify bool) error {
	if notify && !unread {
		return fmt.Errorf("--notify requires --unread")
	}
	return nil
}

// unreadDigest renders the plain text body of a notification mail.
func unreadDigest(items []vz.MessageBoxItem) string {
	var body strings.Builder
	fmt.Fprintf(&body, "You have %d new message(s).\n", len(items))
	for _, item := range items {
		fmt.Fprintf(
			&body,
			"\n%s  %s: %s\n%s\n",
			formatDate(item.Date),
			item.User.Name,
			item.Subject,
			item.MessageUrl,
		)
	}
	return body.String()
}

func sendDigest(cfg SmtpConfig, items []vz.MessageBoxItem) error {
	if cfg.Server == "" || cfg.NotifyAddress == "" {
		return fmt.Errorf("smtp.server and smtp.notify_address must be configured")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("vz-cli <%s>", cfg.EmailAddress)
	mail.To = []string{cfg.NotifyAddress}
	mail.Subject = fmt.Sprintf("%d new message(s)", len(items))
	mail.Text = []byte(unreadDigest(items))

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}

var inboxCmd = &cobra.Command{
	Use:   "inbox [--unread [--notify]]",
	Short: "Lists the items of the inbox.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkNotify(*inboxUnread, *inboxNotify); err != nil {
			return err
		}
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		items, err := client.Inbox(cmd.Context(), session, *inboxUnread)
		if err != nil {
			return fmt.Errorf("failed to get inbox: %w", err)
		}
		renderItems(items)

		if !*inboxNotify || len(items) == 0 {
			return nil
		}
		err = sendDigest(config.Smtp, items)
		if err != nil {
			return fmt.Errorf("failed to send digest: %w", err)
		}
		slog.Info("sent digest", "to", config.Smtp.NotifyAddress, "items", len(items))
		return nil
	},
}
