package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs in with the configured credentials and prints the session token.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Username == "" || config.Password == "" {
			return fmt.Errorf("username and password must be configured in %s", *configPath)
		}
		session, err := client.Login(cmd.Context(), config.Username, config.Password)
		if err != nil {
			return fmt.Errorf("failed to login: %w", err)
		}
		fmt.Println(session.Token())
		return nil
	},
}
