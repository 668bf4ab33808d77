package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/logbook"
	"github.com/devlog/devlog-cli/internal/model"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show your daily log timeline",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.AddCommand(logsSubmitCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireRole(ctx, model.RoleDeveloper)

	repo := logbook.NewRepository(a.api)
	logs, err := repo.List(ctx)
	if err != nil {
		a.exitOn(err)
	}

	printLogs(logs)
	return nil
}

// printLogs renders the timeline in backend order and the grand total.
func printLogs(logs []model.DailyLog) {
	if len(logs) == 0 {
		fmt.Println("No logs yet. Create your first daily log with: devlog logs submit")
		return
	}

	var totalHours float64
	for _, log := range logs {
		hours := model.TotalTime(log.Tasks)
		totalHours += hours

		fmt.Printf("%s  %s  %s  %.1fh  %d/%d tasks completed\n",
			log.ID, log.Date, moodFace(log.Mood), hours,
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
			fmt.Printf("  Manager feedback: %s\n", log.Feedback)
		}
		fmt.Println()
	}

	fmt.Printf("Total: %.1fh across %d logs\n", totalHours, len(logs))
}
