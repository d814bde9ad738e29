package note

import (
	"fmt"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"

	"github.com/spf13/cobra"
)

var RmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Long:  `Deletes a note. Removing a note that is already gone still succeeds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		if err := app.RemoveNote(ctx, args[0]); err != nil {
			return fmt.Errorf("remove note: %w", err)
		}

		fmt.Println("Note deleted.")
		return nil
	},
}
