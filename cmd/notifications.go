package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/notify"
)

var notificationsReadID string

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications, optionally marking one read",
	Args:  cobra.NoArgs,
	RunE:  runNotifications,
}

func init() {
	notificationsCmd.Flags().StringVar(&notificationsReadID, "read", "", "Mark the notification with this id as read")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireSession(ctx)

	feed := notify.NewFeed(a.api)
	if err := feed.Refresh(ctx); err != nil {
		// A failed fetch here is a view-level problem, not a session one;
		// the session was already validated by its own probe.
		a.exitOn(err)
	}

	if notificationsReadID != "" {
		feed.MarkRead(ctx, notificationsReadID)
	}

	items := feed.Items()
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	fmt.Printf("%d unread of %d notifications\n", feed.UnreadCount(), len(items))
	for _, n := range items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, n.ID, n.CreatedAt.Format("Jan 2 15:04"), n.Message)
	}
	return nil
}
