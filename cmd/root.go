package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devlog",
	Short: "DevLog – team work-logging from the command line",
	Long: `devlog is the command-line client for the DevLog team work-logging
dashboard. Developers record daily task logs (time spent, mood, blockers);
managers review their team's logs and attach feedback.
Session state and configuration live in ~/.devlog/.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(productivityCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(exportCmd)
}
