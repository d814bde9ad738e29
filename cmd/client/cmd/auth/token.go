package auth

import (
	"fmt"
	"os"
	"strings"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var token string

var SetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store the bearer token",
	Long: `Stores the bearer token used for authenticated operations.

The token is prompted without echo when not passed via --token.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if token == "" {
			fmt.Print("Token: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			fmt.Println()
			token = strings.TrimSpace(string(raw))
		}
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}

		if err := app.SaveToken(token); err != nil {
			return err
		}

		fmt.Println("Token stored.")
		return nil
	},
}

var ClearTokenCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Forget the stored bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if err := app.ClearToken(); err != nil {
			return err
		}

		fmt.Println("Token cleared.")
		return nil
	},
}

func init() {
	SetTokenCmd.Flags().StringVar(&token, "token", "", "bearer token value")
}
