package printer

import "github.com/slok/tdo/internal/model"

// Printer knows how to print task list information in different formats.
type Printer interface {
	// PrintList prints tasks in order, removing has the ids pending removal.
	PrintList(tasks []model.Task, removing map[string]bool) error
	PrintTask(task model.Task) error
	PrintStats(stats model.Stats) error
	PrintNotification(n model.Notification) error
	PrintMessage(msg string) error
}
