package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <endpoint>",
	Short: "Prints the raw html of a page, ex. `fetch /online.php`.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		contents, err := client.FetchPage(cmd.Context(), session, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch page: %w", err)
		}
		fmt.Println(contents)
		return nil
	},
}
