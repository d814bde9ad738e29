// cmd/client/cmd/init.go
package cmd

import (
	"notekeeper/cmd/client/cmd/auth"
	"notekeeper/cmd/client/cmd/note"
	"notekeeper/cmd/client/cmd/share"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.SetTokenCmd)
	auth.AuthCmd.AddCommand(auth.ClearTokenCmd)

	rootCmd.AddCommand(note.NoteCmd)
	note.NoteCmd.AddCommand(note.AddCmd)
	note.NoteCmd.AddCommand(note.ListCmd)
	note.NoteCmd.AddCommand(note.EditCmd)
	note.NoteCmd.AddCommand(note.RmCmd)

	rootCmd.AddCommand(share.ShareCmd)
	share.ShareCmd.AddCommand(share.CreateCmd)
	share.ShareCmd.AddCommand(share.ViewCmd)
	share.ShareCmd.AddCommand(share.HistoryCmd)
}
