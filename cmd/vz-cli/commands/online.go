package commands

import (
	"fmt"
	"sort"
	"strings"

	"vzchat-backend/internal/scrapers/vz"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var onlineMatch *string

func init() {
	onlineMatch = onlineCmd.Flags().String("match", "", "Order users by similarity of their username to this name.")
	rootCmd.AddCommand(onlineCmd)
}

type rankedUser struct {
	user       vz.OnlineUser
	similarity float64
}

// rankUsers orders users by the Jaro-Winkler similarity of their username to
// name, most similar first.
func rankUsers(users []vz.OnlineUser, name string) []rankedUser {
	name = strings.ToLower(strings.TrimSpace(name))

	ranked := make([]rankedUser, len(users))
	for i, u := range users {
		ranked[i] = rankedUser{
			user:       u,
			similarity: matchr.JaroWinkler(name, strings.ToLower(u.Username), false),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})
	return ranked
}

var onlineCmd = &cobra.Command{
	Use:   "online [--match <name>]",
	Short: "Lists the users that are currently online.",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		users, err := client.OnlineUsers(cmd.Context(), session)
		if err != nil {
			return fmt.Errorf("failed to get online users: %w", err)
		}

		t := newTable()
		if *onlineMatch == "" {
			t.AppendHeader(table.Row{"Id", "Username", "Location", "Profile"})
			for _, u := range users {
				t.AppendRow(table.Row{u.Id, u.Username, u.Location, u.ProfileUrl})
			}
			t.Render()
			return nil
		}

		t.AppendHeader(table.Row{"Similarity", "Id", "Username", "Location", "Profile"})
		for _, r := range rankUsers(users, *onlineMatch) {
			t.AppendRow(table.Row{
				r.similarity,
				r.user.Id,
				r.user.Username,
				r.user.Location,
				r.user.ProfileUrl,
			})
		}
		t.Render()
		return nil
	},
}
