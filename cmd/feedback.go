package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/model"
	"github.com/devlog/devlog-cli/internal/team"
)

var feedbackMessage string

var feedbackCmd = &cobra.Command{
	Use:   "feedback <log-id>",
	Short: "Attach feedback to a report's log (managers)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackMessage, "message", "", "Feedback text")
	_ = feedbackCmd.MarkFlagRequired("message")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireRole(ctx, model.RoleManager)
	logID := args[0]

	feed := team.NewFeed(a.api)
	if err := feed.Refresh(ctx); err != nil {
		a.exitOn(err)
	}

	// Opening pre-fills the form with any existing feedback; the new message
	// then replaces the draft wholesale.
	if err := feed.OpenFeedback(logID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := feed.SetFeedbackText(feedbackMessage); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := feed.SubmitFeedback(ctx); err != nil {
		a.exitOn(err)
	}

	fmt.Printf("Feedback saved on log %s.\n", logID)
	return nil
}
