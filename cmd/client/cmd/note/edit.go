package note

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"

	"github.com/spf13/cobra"
)

var editText string

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a note's text",
	Long:  `Replaces the note text. The note is re-encrypted under a brand new key; its lifetime is unchanged.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		text := editText
		if text == "" {
			fmt.Println("Enter the new text (Ctrl+D to finish):")
			scanner := bufio.NewScanner(os.Stdin)
			var lines []string
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			text = strings.Join(lines, "\n")
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		if err := app.EditNote(ctx, args[0], text); err != nil {
			return fmt.Errorf("edit note: %w", err)
		}

		fmt.Println("Note updated.")
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVar(&editText, "text", "", "replacement text")
}
