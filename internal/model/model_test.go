package model_test

import (
	"testing"

	"github.com/devlog/devlog-cli/internal/model"
)

func TestTotalTime(t *testing.T) {
	tasks := []model.Task{
		{Description: "A", TimeSpent: 2},
		{Description: "B", TimeSpent: 1.5},
	}
	if got := model.TotalTime(tasks); got != 3.5 {
		t.Errorf("TotalTime = %v, want 3.5", got)
	}
}

func TestTotalTimeEmpty(t *testing.T) {
	if got := model.TotalTime(nil); got != 0 {
		t.Errorf("TotalTime(nil) = %v, want 0", got)
	}
}

func TestCompletedTasks(t *testing.T) {
	tasks := []model.Task{
		{Description: "A", Completed: true},
		{Description: "B"},
		{Description: "C", Completed: true},
	}
	if got := model.CompletedTasks(tasks); got != 2 {
		t.Errorf("CompletedTasks = %d, want 2", got)
	}
}
