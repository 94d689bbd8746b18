package commands

import (
	"fmt"

	"vzchat-backend/internal/scrapers/vz"

	"github.com/spf13/cobra"
)

var (
	sendText     *string
	sendName     *string
	sendTitle    *string
	sendPhotoUrl *string
)

func init() {
	sendText = sendCmd.Flags().String("text", "", "The message to send.")
	sendName = sendCmd.Flags().String("name", "", "The recipient's name, looked up from the conversation if empty.")
	sendTitle = sendCmd.Flags().String("title", "", "The subject, looked up from the conversation if empty.")
	sendPhotoUrl = sendCmd.Flags().String("photo-url", "", "The recipient's profile image url, looked up from the conversation if empty.")
	_ = sendCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(sendCmd)
}

// fillFromThread completes the fields of req that the caller left empty with
// the values of the conversation it belongs to.
func fillFromThread(req vz.SendMessageRequest, photoUrl string, threads []vz.Thread, photoToken func(string) string) (vz.SendMessageRequest, error) {
	var thread *vz.Thread
	for i := range threads {
		if threads[i].DialogId == req.DialogId {
			thread = &threads[i]
			break
		}
	}
	if thread == nil {
		return req, fmt.Errorf("no conversation with dialog id %q", req.DialogId)
	}

	if req.Name == "" {
		req.Name = thread.User.Name
	}
	if req.Title == "" {
		req.Title = thread.Subject
	}
	if photoUrl == "" {
		photoUrl = thread.User.ImageUrl
	}
	req.Photo = photoToken(photoUrl)
	return req, nil
}

var sendCmd = &cobra.Command{
	Use:   "send <dialog id> --text <message>",
	Short: "Sends a message into an existing conversation.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		req := vz.SendMessageRequest{
			DialogId: args[0],
			Text:     *sendText,
			Name:     *sendName,
			Title:    *sendTitle,
			Photo:    client.PhotoToken(*sendPhotoUrl),
		}
		if req.Name == "" || req.Title == "" || *sendPhotoUrl == "" {
			threads, err := client.AllThreads(cmd.Context(), session)
			if err != nil {
				return fmt.Errorf("failed to get threads: %w", err)
			}
			req, err = fillFromThread(req, *sendPhotoUrl, threads, client.PhotoToken)
			if err != nil {
				return fmt.Errorf("failed to complete message: %w", err)
			}
		}

		ok, err := client.SendMessage(cmd.Context(), session, req)
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		if !ok {
			return fmt.Errorf("failed to send message: the site rejected the message")
		}
		fmt.Println("sent")
		return nil
	},
}
