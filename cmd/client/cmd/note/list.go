package note

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"
	"notekeeper/internal/domain/note"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watch bool

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your live notes",
	Long: `Lists decrypted notes in the order they were created. Expired notes are
gone by the time this returns.

With --watch the list is followed live: the screen refreshes whenever a
note appears, changes or expires, until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		if watch {
			return watchNotes(cmd, app)
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		items, err := app.ListNotes(ctx)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}

		renderNotes(items)
		return nil
	},
}

func watchNotes(cmd *cobra.Command, app *client.App) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := app.WatchNotes(ctx)
	if err != nil {
		return fmt.Errorf("watch notes: %w", err)
	}

	for items := range feed {
		fmt.Print("\033[H\033[2J")
		renderNotes(items)
		fmt.Println("\nWatching. Press Ctrl+C to stop.")
	}
	return nil
}

func renderNotes(items []note.Item) {
	if len(items) == 0 {
		fmt.Println("No notes.")
		return
	}

	idColor := color.New(color.FgCyan)
	ttlColor := color.New(color.FgYellow)

	for _, item := range items {
		created := time.UnixMilli(item.CreatedAt).Format("2006-01-02 15:04")
		lifetime := "forever"
		if item.TTLSeconds > 0 {
			lifetime = (time.Duration(item.TTLSeconds) * time.Second).String()
		}
		fmt.Printf("%s  %s  %s\n  %s\n",
			idColor.Sprint(item.ID), created, ttlColor.Sprint(lifetime), item.Text)
	}
}

func init() {
	ListCmd.Flags().BoolVar(&watch, "watch", false, "follow the list live until interrupted")
}
