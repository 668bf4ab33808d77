package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devlog/devlog-cli/internal/analytics"
	"github.com/devlog/devlog-cli/internal/logbook"
	"github.com/devlog/devlog-cli/internal/model"
)

var (
	submitID       string
	submitDate     string
	submitTasks    []string
	submitAddTasks []string
	submitRemove   []int
	submitMood     int
	submitBlockers string
)

var logsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Create a daily log, or update one with --id",
	Long: `Create or update a daily log.

Tasks are given as <description>:<hours> with an optional :done or :open
suffix (new tasks default to done):

  devlog logs submit --task "Reviewed PRs:2" --task "Fixed the build:1.5:open"

With --id, the existing log is loaded as the starting point; --task replaces
its whole task list, --add-task appends, and --remove-task deletes by
position (1-based). Flags left unset keep the existing values.`,
	Args: cobra.NoArgs,
	RunE: runLogsSubmit,
}

func init() {
	logsSubmitCmd.Flags().StringVar(&submitID, "id", "", "Id of an existing log to update")
	logsSubmitCmd.Flags().StringVar(&submitDate, "date", "", "Log date (YYYY-MM-DD); defaults to today")
	logsSubmitCmd.Flags().StringArrayVar(&submitTasks, "task", nil, "Task as <description>:<hours>[:done|:open]; replaces the task list")
	logsSubmitCmd.Flags().StringArrayVar(&submitAddTasks, "add-task", nil, "Task to append, same format as --task")
	logsSubmitCmd.Flags().IntSliceVar(&submitRemove, "remove-task", nil, "Task position to remove (1-based)")
	logsSubmitCmd.Flags().IntVar(&submitMood, "mood", 3, "Mood from 1 (awful) to 5 (great)")
	logsSubmitCmd.Flags().StringVar(&submitBlockers, "blockers", "", "Blockers or challenges faced")
}

// parseTaskSpec parses <description>:<hours>[:done|:open]. The description
// may itself contain colons; hours is the last colon-separated field.
func parseTaskSpec(spec string) (model.Task, error) {
	completed := true
	rest := spec
	switch {
	case strings.HasSuffix(rest, ":done"):
		rest = strings.TrimSuffix(rest, ":done")
	case strings.HasSuffix(rest, ":open"):
		rest = strings.TrimSuffix(rest, ":open")
		completed = false
	}

	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return model.Task{}, fmt.Errorf("invalid task %q: expected <description>:<hours>[:done|:open]", spec)
	}
	hours, err := strconv.ParseFloat(rest[i+1:], 64)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid hours in task %q: %v", spec, err)
	}

	return model.Task{
		Description: rest[:i],
		TimeSpent:   hours,
		Completed:   completed,
	}, nil
}

// removeTaskPositions deletes tasks by 1-based position, highest first so
// earlier removals don't shift later ones. A position given twice would
// silently delete whichever task shifted into it, so duplicates are rejected
// up front.
func removeTaskPositions(d *logbook.Draft, positions []int) error {
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if seen[pos] {
			return fmt.Errorf("--remove-task position %d given more than once", pos)
		}
		seen[pos] = true
	}

	sorted := make([]int, len(positions))
	copy(sorted, positions)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, pos := range sorted {
		if err := d.RemoveTask(pos - 1); err != nil {
			return err
		}
	}
	return nil
}

func runLogsSubmit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := requireRole(ctx, model.RoleDeveloper)
	repo := logbook.NewRepository(a.api)

	var draft *logbook.Draft
	if submitID != "" {
		// Editing always starts from the log's full persisted state.
		logs, err := repo.List(ctx)
		if err != nil {
			a.exitOn(err)
		}
		for _, log := range logs {
			if log.ID == submitID {
				draft = logbook.EditDraft(log)
				break
			}
		}
		if draft == nil {
			fmt.Fprintf(os.Stderr, "No log with id %q.\n", submitID)
			os.Exit(1)
		}
	} else {
		date := submitDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		} else {
			parseDateFlag("date", date)
		}
		draft = logbook.NewDraft(date)
	}

	if submitID != "" && cmd.Flags().Changed("date") {
		parseDateFlag("date", submitDate)
		draft.Date = submitDate
	}

	if len(submitTasks) > 0 {
		tasks := make([]model.Task, 0, len(submitTasks))
		for _, spec := range submitTasks {
			task, err := parseTaskSpec(spec)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			tasks = append(tasks, task)
		}
		draft.Tasks = tasks
	}

	for _, spec := range submitAddTasks {
		task, err := parseTaskSpec(spec)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		draft.AddTask()
		if err := draft.SetTask(len(draft.Tasks)-1, task); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := removeTaskPositions(draft, submitRemove); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("mood") || submitID == "" {
		draft.Mood = submitMood
	}
	if cmd.Flags().Changed("blockers") || submitID == "" {
		draft.Blockers = submitBlockers
	}

	saved, err := repo.Save(ctx, draft)
	if err != nil {
		a.exitOn(err)
	}

	fmt.Printf("Saved log for %s (%.1fh across %d tasks).\n",
		saved.Date, model.TotalTime(saved.Tasks), len(saved.Tasks))

	// A successful write refreshes both derived views; the write response on
	// its own cannot.
	logs, err := repo.List(ctx)
	if err != nil {
		a.exitOn(err)
	}
	agg := analytics.NewAggregator(a.api)
	if err := agg.Refresh(ctx, analytics.WindowDays); err != nil {
		a.exitOn(err)
	}

	var totalHours float64
	for _, log := range logs {
		totalHours += model.TotalTime(log.Tasks)
	}
	fmt.Printf("You now have %d logs (%.1fh) and activity on %d of the last %d days.\n",
		len(logs), totalHours, len(agg.Series()), analytics.WindowDays)
	return nil
}
