package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

var (
	registerUsername     string
	registerEmail        string
	registerPassword     string
	registerRole         string
	registerManagerID    string
	registerListManagers bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a DevLog account and log in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Account username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
	registerCmd.Flags().StringVar(&registerRole, "role", model.RoleDeveloper, "Account role: developer or manager")
	registerCmd.Flags().StringVar(&registerManagerID, "manager", "", "Manager id to report to (developers, optional)")
	registerCmd.Flags().BoolVar(&registerListManagers, "list-managers", false, "List available managers and exit")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, store := openStore()
	client := api.New(cfg.ServerURL, nil)

	if registerListManagers {
		managers, err := client.Managers(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if len(managers) == 0 {
			fmt.Println("No managers registered yet.")
			return nil
		}
		for _, m := range managers {
			fmt.Printf("%s  %s (%s)\n", m.ID, m.Username, m.Email)
		}
		return nil
	}

	if registerUsername == "" || registerEmail == "" || registerPassword == "" {
		fmt.Fprintln(os.Stderr, "--username, --email and --password are required")
		os.Exit(1)
	}
	if registerRole != model.RoleDeveloper && registerRole != model.RoleManager {
		fmt.Fprintf(os.Stderr, "invalid --role value %q: must be developer or manager\n", registerRole)
		os.Exit(1)
	}
	if registerManagerID != "" && registerRole != model.RoleDeveloper {
		fmt.Fprintln(os.Stderr, "--manager only applies to developer accounts")
		os.Exit(1)
	}

	in := api.RegisterInput{
		Username: registerUsername,
		Email:    registerEmail,
		Password: registerPassword,
		Role:     registerRole,
	}
	if registerManagerID != "" {
		in.ManagerID = &registerManagerID
	}

	token, user, err := client.Register(ctx, in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := store.Login(token, user); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Registered and logged in as %s (%s).\n", user.Username, user.Role)
	return nil
}
