package note

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"
	"notekeeper/internal/domain/note"

	"github.com/spf13/cobra"
)

var (
	noteText string
	ttlValue int64
	ttlUnit  string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Long: `Creates an encrypted note.

Without --ttl the note lives forever. With --ttl and --unit it silently
disappears once the lifetime has passed, for example:

  notekeeper note add --ttl 30 --unit minutes "call the dentist"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		text := noteText
		if len(args) > 0 {
			text = strings.Join(args, " ")
		}
		if text == "" {
			fmt.Println("Enter the note text (Ctrl+D to finish):")
			scanner := bufio.NewScanner(os.Stdin)
			var lines []string
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			text = strings.Join(lines, "\n")
		}

		// A bare note is forever; only send the unit alongside a real ttl.
		unit := note.TTLUnit("")
		if ttlValue > 0 {
			unit = note.TTLUnit(ttlUnit)
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		id, err := app.AddNote(ctx, text, ttlValue, unit)
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		if id == "" {
			// The server drops blank input without complaint.
			return nil
		}

		fmt.Printf("Note created: %s\n", id)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&noteText, "text", "", "note text")
	AddCmd.Flags().Int64Var(&ttlValue, "ttl", 0, "lifetime value; 0 means the note never expires")
	AddCmd.Flags().StringVar(&ttlUnit, "unit", "seconds", "lifetime unit (seconds, minutes, hours, days, weeks)")
}
