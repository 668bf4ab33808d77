package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, store := openStore()
	if err := store.Logout(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Logged out.")
	return nil
}
