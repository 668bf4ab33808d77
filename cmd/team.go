package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/model"
	"github.com/devlog/devlog-cli/internal/team"
)

var (
	teamDeveloperID string
	teamFrom        string
	teamTo          string
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show your team's filtered log feed (managers)",
	Args:  cobra.NoArgs,
	RunE:  runTeam,
}

func init() {
	teamCmd.Flags().StringVar(&teamDeveloperID, "developer", "", "Only this developer's logs (empty = all developers)")
	teamCmd.Flags().StringVar(&teamFrom, "from", "", "Start date (YYYY-MM-DD)")
	teamCmd.Flags().StringVar(&teamTo, "to", "", "End date (YYYY-MM-DD)")
}

func runTeam(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireRole(ctx, model.RoleManager)

	if teamFrom != "" {
		parseDateFlag("from", teamFrom)
	}
	if teamTo != "" {
		parseDateFlag("to", teamTo)
	}

	feed := team.NewFeed(a.api)
	if err := feed.RefreshDevelopers(ctx); err != nil {
		a.exitOn(err)
	}
	filter := model.TeamFilter{
		DeveloperID: teamDeveloperID,
		StartDate:   teamFrom,
		EndDate:     teamTo,
	}
	if err := feed.Apply(ctx, filter); err != nil {
		a.exitOn(err)
	}

	logs := feed.Logs()
	fmt.Printf("Team: %d developers, %d logs, %.1fh total\n\n",
		len(feed.Developers()), len(logs), feed.TotalHours())

	if len(logs) == 0 {
		fmt.Println("No logs found for the selected criteria.")
		return nil
	}

	for _, log := range logs {
		fmt.Printf("%s  %s  %s  %s  %.1fh  %d/%d tasks\n",
			log.ID, log.UserName, log.Date, moodFace(log.Mood),
			model.TotalTime(log.Tasks),
			model.CompletedTasks(log.Tasks), len(log.Tasks))
		for _, task := range log.Tasks {
			marker := "·"
			if task.Completed {
				marker = "✓"
			}
			fmt.Printf("  %s %s (%.1fh)\n", marker, task.Description, task.TimeSpent)
		}
		if log.Blockers != "" {
			fmt.Printf("  Blockers: %s\n", log.Blockers)
		}
		if log.Feedback != "" {
			fmt.Printf("  Your feedback: %s\n", log.Feedback)
		}
		fmt.Println()
	}
	return nil
}
