package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/tdo/internal/model"
)

// JSONPrinter prints task list information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type taskOutput struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	Removing  bool      `json:"removing,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type statsOutput struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Progress   int            `json:"progress"`
	Categories map[string]int `json:"categories"`
}

type notificationOutput struct {
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type messageOutput struct {
	Message string `json:"message"`
}

func toTaskOutput(t model.Task, removing bool) taskOutput {
	return taskOutput{
		ID:        t.ID,
		Text:      t.Text,
		Category:  string(t.Category),
		Completed: t.Completed,
		Removing:  removing,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

// PrintList prints tasks in JSON format.
func (j *JSONPrinter) PrintList(tasks []model.Task, removing map[string]bool) error {
	items := make([]taskOutput, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskOutput(t, removing[t.ID])
	}
	return j.encode(items)
}

// PrintTask prints a single task in JSON format.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(toTaskOutput(task, false))
}

// PrintStats prints the collection stats in JSON format.
func (j *JSONPrinter) PrintStats(stats model.Stats) error {
	cats := make(map[string]int, len(stats.Categories))
	for c, n := range stats.Categories {
		cats[string(c)] = n
	}

	return j.encode(statsOutput{
		Total:      stats.Total,
		Completed:  stats.Completed,
		Progress:   stats.Progress,
		Categories: cats,
	})
}

// PrintNotification prints a notification in JSON format.
func (j *JSONPrinter) PrintNotification(n model.Notification) error {
	out := notificationOutput{Message: n.Message, ExpiresAt: n.ExpiresAt.UTC()}
	if n.Action != nil {
		out.Action = n.Action.Label
	}
	return j.encode(out)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
