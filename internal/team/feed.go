// Package team is the manager's view: the filtered feed of report logs and
// the feedback workflow attached to it.
package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

// feedbackForm is the single feedback edit slot. It is a tagged union —
// either closed, or open on exactly one log with a draft text — so "at most
// one form open" holds structurally rather than by convention.
type feedbackForm struct {
	open  bool
	logID string
	draft string
}

// Feed holds the manager's filtered team view.
type Feed struct {
	client     *api.Client
	filter     model.TeamFilter
	logs       []model.TeamLog
	developers []model.User
	form       feedbackForm
}

// NewFeed creates an empty feed backed by the given client.
func NewFeed(client *api.Client) *Feed {
	return &Feed{client: client}
}

// Apply sets the filter and refetches, as any filter change must. Empty
// filter fields are omitted from the request entirely.
func (f *Feed) Apply(ctx context.Context, filter model.TeamFilter) error {
	f.filter = filter
	return f.Refresh(ctx)
}

// Refresh refetches the feed under the current filter. The response fully
// replaces local state; there is no merging of stale and fresh results.
func (f *Feed) Refresh(ctx context.Context) error {
	logs, err := f.client.TeamLogs(ctx, f.filter)
	if err != nil {
		return err
	}
	f.logs = logs
	return nil
}

// RefreshDevelopers fetches the manager's reports for filter scoping.
func (f *Feed) RefreshDevelopers(ctx context.Context) error {
	devs, err := f.client.TeamDevelopers(ctx)
	if err != nil {
		return err
	}
	f.developers = devs
	return nil
}

// Logs returns the last fetched feed in backend order.
func (f *Feed) Logs() []model.TeamLog { return f.logs }

// Developers returns the last fetched report list.
func (f *Feed) Developers() []model.User { return f.developers }

// Filter returns the active filter.
func (f *Feed) Filter() model.TeamFilter { return f.filter }

// TotalHours sums the feed's logged time through the shared task-sum
// function.
func (f *Feed) TotalHours() float64 {
	var sum float64
	for _, log := range f.logs {
		sum += model.TotalTime(log.Tasks)
	}
	return sum
}

// OpenFeedback opens the feedback form on the given log, pre-filled with any
// existing feedback text. Opening while another log's form is open discards
// that form's in-progress draft without saving it.
func (f *Feed) OpenFeedback(logID string) error {
	for _, log := range f.logs {
		if log.ID == logID {
			f.form = feedbackForm{open: true, logID: logID, draft: log.Feedback}
			return nil
		}
	}
	return fmt.Errorf("log %s is not in the current team feed", logID)
}

// CloseFeedback discards the form without saving.
func (f *Feed) CloseFeedback() {
	f.form = feedbackForm{}
}

// OpenForm reports the open form's log id and draft text, if any.
func (f *Feed) OpenForm() (logID, draft string, open bool) {
	return f.form.logID, f.form.draft, f.form.open
}

// SetFeedbackText replaces the open form's draft.
func (f *Feed) SetFeedbackText(text string) error {
	if !f.form.open {
		return fmt.Errorf("no feedback form is open")
	}
	f.form.draft = text
	return nil
}

// SubmitFeedback sends the open form's draft. Empty or whitespace-only text
// is rejected before any network call. On success the form closes and the
// feed is refetched in full — server-side authorization may change which
// logs remain visible, so a local patch of the one entry is not trusted.
func (f *Feed) SubmitFeedback(ctx context.Context) error {
	if !f.form.open {
		return fmt.Errorf("no feedback form is open")
	}
	if strings.TrimSpace(f.form.draft) == "" {
		return &api.ValidationError{Message: "feedback text is empty"}
	}

	if err := f.client.SubmitFeedback(ctx, f.form.logID, f.form.draft); err != nil {
		return err
	}

	f.form = feedbackForm{}
	return f.Refresh(ctx)
}
