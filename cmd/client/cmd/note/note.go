package note

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// NoteCmd is the parent command for personal note operations.
var NoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage personal notes",
	Long:  `Create, list, edit and remove personal encrypted notes.`,
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), d)
}
