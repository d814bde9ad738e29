package share

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// ShareCmd is the parent command for one-time shared notes.
var ShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage one-time shared notes",
	Long: `Create and open self-destructing shared notes.

A shared note can be opened exactly once. After it is opened, a countdown
runs and the note destroys itself when it reaches zero.`,
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), d)
}
