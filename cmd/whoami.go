package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := requireSession(context.Background())
	user := a.store.User()

	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Role:     %s\n", user.Role)
	if user.ManagerID != nil && *user.ManagerID != "" {
		fmt.Printf("Manager:  %s\n", *user.ManagerID)
	}
	return nil
}
