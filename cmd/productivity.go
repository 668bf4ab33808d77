package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/analytics"
	"github.com/devlog/devlog-cli/internal/model"
)

var productivityCmd = &cobra.Command{
	Use:   "productivity",
	Short: "Show your 30-day productivity series",
	Args:  cobra.NoArgs,
	RunE:  runProductivity,
}

func runProductivity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireRole(ctx, model.RoleDeveloper)

	agg := analytics.NewAggregator(a.api)
	if err := agg.Refresh(ctx, analytics.WindowDays); err != nil {
		a.exitOn(err)
	}

	series := agg.Series()
	if len(series) == 0 {
		fmt.Printf("No activity in the last %d days.\n", analytics.WindowDays)
		return nil
	}

	fmt.Printf("Productivity, last %d days (%d active days):\n", analytics.WindowDays, len(series))
	for _, p := range series {
		fmt.Printf("%s  %5.1fh  %s\n", p.Date, p.TotalTime, moodFace(p.Mood))
	}
	return nil
}
