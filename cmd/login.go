package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/api"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the DevLog backend",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Account username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, store := openStore()

	client := api.New(cfg.ServerURL, nil)
	token, user, err := client.Login(ctx, loginUsername, loginPassword)
	if err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			fmt.Fprintln(os.Stderr, "Login failed: incorrect username or password.")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := store.Login(token, user); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Logged in as %s (%s).\n", user.Username, user.Role)
	return nil
}
