package model

import "time"

// Roles a user account can hold. Immutable after registration.
const (
	RoleDeveloper = "developer"
	RoleManager   = "manager"
)

// User is the backend's view of an account.
type User struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// Task is one unit of work inside a daily log. Tasks have no identity of
// their own; position in the log's task slice is what addresses them.
type Task struct {
	Description string  `json:"description"`
	TimeSpent   float64 `json:"time_spent"`
	Completed   bool    `json:"completed"`
}

// DailyLog is one developer-day of recorded work.
type DailyLog struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Tasks     []Task  `json:"tasks"`
	Mood      int     `json:"mood"` // 1–5
	Blockers  string  `json:"blockers,omitempty"`
	TotalTime float64 `json:"total_time"`
	Feedback  string  `json:"feedback,omitempty"`
}

// TeamLog is a DailyLog as seen in the manager feed, annotated with the
// owner's display name.
type TeamLog struct {
	DailyLog
	UserName string `json:"user_name"`
}

// Notification is a message addressed to the current user. Read-state only
// ever flips unread → read.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// ProductivityPoint is one day's aggregate for charting. It has no identity
// and is recomputed by the backend on every fetch.
type ProductivityPoint struct {
	Date      string  `json:"date"`
	TotalTime float64 `json:"total_time"`
	Mood      int     `json:"mood"`
}

// TeamFilter narrows the manager feed. Empty fields are omitted from the
// request entirely; an empty DeveloperID means "all developers in scope".
// HasBlockers and ReviewedStatus are accepted by newer backends but never
// sent when empty.
type TeamFilter struct {
	DeveloperID    string
	StartDate      string
	EndDate        string
	HasBlockers    string
	ReviewedStatus string
}

// TotalTime returns the exact sum of the tasks' time_spent values. Every
// view that shows a log total goes through this one function so the form,
// the timeline and the team aggregate can never drift apart.
func TotalTime(tasks []Task) float64 {
	var sum float64
	for _, t := range tasks {
		sum += t.TimeSpent
	}
	return sum
}

// CompletedTasks counts the tasks flagged done.
func CompletedTasks(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
