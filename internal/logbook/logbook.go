// Package logbook is the developer's view of their own daily logs: the
// fetched timeline plus the in-memory draft a log is edited through.
package logbook

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

// Repository fetches and mutates the current user's logs.
type Repository struct {
	client *api.Client
}

// NewRepository creates a repository backed by the given client.
func NewRepository(client *api.Client) *Repository {
	return &Repository{client: client}
}

// List returns all logs owned by the current user in backend order; the
// backend sends most-recent-first and the client does not re-sort.
func (r *Repository) List(ctx context.Context) ([]model.DailyLog, error) {
	return r.client.Logs(ctx)
}

// Draft is the form state for one log. Task edits are purely in-memory
// until Save; nothing is persisted per-task. A draft made from an existing
// log keeps that log's id for the whole edit session.
type Draft struct {
	id       string // empty means create
	Date     string
	Tasks    []model.Task
	Mood     int
	Blockers string
}

// NewDraft starts a blank draft for the given date, seeded like the form:
// one empty task, neutral mood.
func NewDraft(date string) *Draft {
	return &Draft{
		Date:  date,
		Tasks: []model.Task{{Completed: true}},
		Mood:  3,
	}
}

// EditDraft starts a draft pre-filled with the full state of an existing
// log.
func EditDraft(log model.DailyLog) *Draft {
	tasks := make([]model.Task, len(log.Tasks))
	copy(tasks, log.Tasks)
	return &Draft{
		id:       log.ID,
		Date:     log.Date,
		Tasks:    tasks,
		Mood:     log.Mood,
		Blockers: log.Blockers,
	}
}

// ID returns the id of the log being edited, or "" for a new log.
func (d *Draft) ID() string { return d.id }

// AddTask appends a new blank task, defaulting to completed like the form.
func (d *Draft) AddTask() {
	d.Tasks = append(d.Tasks, model.Task{Completed: true})
}

// SetTask replaces the task at the given position.
func (d *Draft) SetTask(i int, task model.Task) error {
	if i < 0 || i >= len(d.Tasks) {
		return fmt.Errorf("no task at position %d", i)
	}
	d.Tasks[i] = task
	return nil
}

// RemoveTask deletes the task at the given position.
func (d *Draft) RemoveTask(i int) error {
	if i < 0 || i >= len(d.Tasks) {
		return fmt.Errorf("no task at position %d", i)
	}
	d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
	return nil
}

// TotalTime is the running sum shown while editing, computed by the same
// function used at submit time.
func (d *Draft) TotalTime() float64 {
	return model.TotalTime(d.Tasks)
}

// validate rejects malformed drafts before any network traffic.
func (d *Draft) validate() error {
	if d.Date == "" {
		return &api.ValidationError{Message: "log date is required"}
	}
	if len(d.Tasks) == 0 {
		return &api.ValidationError{Message: "a log needs at least one task"}
	}
	for i, task := range d.Tasks {
		if strings.TrimSpace(task.Description) == "" {
			return &api.ValidationError{Message: fmt.Sprintf("task %d has no description", i+1)}
		}
		if task.TimeSpent < 0 || math.IsNaN(task.TimeSpent) || math.IsInf(task.TimeSpent, 0) {
			return &api.ValidationError{Message: fmt.Sprintf("task %d has an invalid time value", i+1)}
		}
	}
	if d.Mood < 1 || d.Mood > 5 {
		return &api.ValidationError{Message: "mood must be between 1 and 5"}
	}
	return nil
}

// Save validates the draft and submits it, creating or updating depending on
// whether the draft carries a log id. Validation failures are returned with
// zero network calls issued. total_time is recomputed here, right before
// submission, as the exact sum of the submitted tasks.
//
// On success the caller must re-fetch both the log list and the productivity
// series: the write response alone cannot refresh both derived views, so the
// full refetch is the correctness contract, not an optimization choice.
func (r *Repository) Save(ctx context.Context, d *Draft) (model.DailyLog, error) {
	if err := d.validate(); err != nil {
		return model.DailyLog{}, err
	}

	in := api.LogInput{
		Date:      d.Date,
		Tasks:     d.Tasks,
		Mood:      d.Mood,
		Blockers:  d.Blockers,
		TotalTime: model.TotalTime(d.Tasks),
	}

	if d.id == "" {
		return r.client.CreateLog(ctx, in)
	}
	return r.client.UpdateLog(ctx, d.id, in)
}
