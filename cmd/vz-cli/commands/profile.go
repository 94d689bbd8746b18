package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile <id>",
	Short: "Shows the profile of a user.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		profile, err := client.Profile(cmd.Context(), session, args[0])
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}

		age := "-"
		if profile.Age != nil {
			age = fmt.Sprint(*profile.Age)
		}
		var groups []string
		for _, g := range profile.GroupMemberships {
			groups = append(groups, fmt.Sprintf("%s (%s)", g.Name, g.Id))
		}

		t := newTable()
		t.AppendRows([]table.Row{
			{"id", profile.Id},
			{"username", profile.Username},
			{"type", profile.Type},
			{"age", age},
			{"location", profile.Location},
			{"orientation", profile.Orientation},
			{"alignment", profile.Alignment},
			{"groups", strings.Join(groups, "\n")},
			{"writes to", fmt.Sprintf(
				"male %.1f%%, female %.1f%%, couple %.1f%%",
				profile.WritesToTypes.Male,
				profile.WritesToTypes.Female,
				profile.WritesToTypes.Couple,
			)},
			{"image", profile.ImageUrl},
			{"photo token", client.PhotoToken(profile.ImageUrl)},
			{"url", profile.ProfileUrl},
		})
		t.Render()
		return nil
	},
}
