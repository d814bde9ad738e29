package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd is the parent command for token management. The server trusts
// tokens issued out-of-band; there is no register/login flow here.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the bearer token",
	Long:  `Store or clear the bearer token used for authenticated operations.`,
}
