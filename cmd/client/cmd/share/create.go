package share

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"notekeeper/cmd/client/cmd/types"
	"notekeeper/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	shareText      string
	ttlSeconds     int64
	withPassphrase bool
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a one-time shared note",
	Long: `Creates a shared note that can be opened exactly once.

The returned link carries the decryption key in its fragment, so the key
never reaches the server. With --passphrase the key is derived from a
passphrase instead and no key material is printed at all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		text := shareText
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

		var passphrase string
		if withPassphrase {
			fmt.Print("Passphrase: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("read passphrase: %w", err)
			}
			fmt.Println()
			passphrase = string(raw)
			if passphrase == "" {
				return fmt.Errorf("passphrase must not be empty")
			}
		}

		ctx, cancel := contextWithTimeout(cmd, 30*time.Second)
		defer cancel()

		created, err := app.CreateShare(ctx, text, ttlSeconds, passphrase)
		if err != nil {
			return fmt.Errorf("create share: %w", err)
		}

		green := color.New(color.FgGreen, color.Bold)
		cyan := color.New(color.FgCyan)

		fmt.Println()
		green.Println("Shared note created.")
		fmt.Printf("  id:   %s\n", cyan.Sprint(created.ID))
		if created.Key != "" {
			fmt.Printf("  key:  %s\n", cyan.Sprint(created.Key))
		}
		fmt.Printf("  link: %s\n", cyan.Sprint(created.Link))
		fmt.Printf("  ttl:  %s after first open\n", (time.Duration(created.TTLSeconds) * time.Second).String())
		fmt.Println()
		fmt.Println("The note can be opened exactly once.")
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&shareText, "text", "", "note text")
	CreateCmd.Flags().Int64Var(&ttlSeconds, "ttl", 60, "seconds the note survives after it is first opened")
	CreateCmd.Flags().BoolVar(&withPassphrase, "passphrase", false, "derive the key from a passphrase instead of printing it")
}
