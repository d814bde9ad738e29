package share

import (
	"fmt"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List shares created from this machine",
	Long: `Lists the shared notes this client created, newest first.

History only knows ids and links; the keys were never stored, so history
alone can not open anything.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		entries, err := app.ShareHistory()
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No shares created yet.")
			return nil
		}

		cyan := color.New(color.FgCyan)
		for _, e := range entries {
			fmt.Printf("%s  %s  ttl %s\n  %s\n",
				cyan.Sprint(e.ShareID),
				e.CreatedAt.Format("2006-01-02 15:04"),
				(time.Duration(e.TTLSeconds) * time.Second).String(),
				e.Link)
		}
		return nil
	},
}
