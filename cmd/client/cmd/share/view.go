package share

import (
	"fmt"
	"os"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"
	"notekeeper/internal/domain/share"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var secret string

var ViewCmd = &cobra.Command{
	Use:   "view <link-or-id>",
	Short: "Open a shared note",
	Long: `Opens a shared note. This works exactly once per note.

Accepts either a full share link (the key is taken from the fragment) or
a bare id, in which case the key or passphrase is prompted without echo.
The note text is shown with a countdown; when it reaches zero the note is
gone on the server too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		id := args[0]
		key := secret
		if parsedID, parsedKey, err := share.ParseLink(args[0]); err == nil {
			id = parsedID
			if key == "" {
				key = string(parsedKey)
			}
		}

		if key == "" {
			fmt.Print("Key or passphrase: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("read secret: %w", err)
			}
			fmt.Println()
			key = string(raw)
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		revealed, err := app.RevealShare(ctx, id, key)
		if err != nil {
			return fmt.Errorf("open shared note: %w", err)
		}

		yellow := color.New(color.FgYellow, color.Bold)

		fmt.Println()
		fmt.Println(revealed.Text)
		fmt.Println()

		// The server's countdown is authoritative; this one just shows the
		// reader how long the text remains readable.
		for remaining := revealed.TTLSeconds; remaining > 0; remaining-- {
			fmt.Printf("\r%s ", yellow.Sprintf("self-destructs in %ds", remaining))
			time.Sleep(time.Second)
		}
		fmt.Print("\r\033[K")
		fmt.Println("The note has been destroyed.")
		return nil
	},
}

func init() {
	ViewCmd.Flags().StringVar(&secret, "key", "", "decryption key or passphrase")
}
