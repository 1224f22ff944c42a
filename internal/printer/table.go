package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/slok/tdo/internal/model"
)

// TablePrinter prints task list information in a table format.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

var (
	doneColor     = color.New(color.FgGreen)
	removingColor = color.New(color.Faint, color.CrossedOut)
	idColor       = color.New(color.FgHiYellow, color.Faint)
	titleColor    = color.New(color.Bold, color.Underline)
	actionColor   = color.New(color.Bold, color.FgCyan)
)

// PrintList prints tasks in a table format.
func (t *TablePrinter) PrintList(tasks []model.Task, removing map[string]bool) error {
	if len(tasks) == 0 {
		fmt.Fprintln(t.writer, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tDONE\tTASK\tCATEGORY\tCREATED")

	now := t.now()
	for _, task := range tasks {
		text := task.Text
		if removing[task.ID] {
			text = removingColor.Sprint(text)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			idColor.Sprint(task.ID),
			checkbox(task.Completed),
			text,
			task.Category,
			TimeAgo(now, task.CreatedAt),
		)
	}

	return nil
}

// PrintTask prints the details of a task.
func (t *TablePrinter) PrintTask(task model.Task) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "Task:       %s\n", task.Text)
	fmt.Fprintf(t.writer, "Category:   %s\n", task.Category)
	fmt.Fprintf(t.writer, "Done:       %s\n", checkbox(task.Completed))
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(task.CreatedAt))
	return nil
}

// PrintStats prints the progress and the per category counts.
func (t *TablePrinter) PrintStats(stats model.Stats) error {
	titleColor.Fprintln(t.writer, "Progress")
	fmt.Fprintf(t.writer, "%s %d%% (%d/%d)\n\n", progressBar(stats.Progress, 20), stats.Progress, stats.Completed, stats.Total)

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "CATEGORY\tTASKS")
	for _, c := range model.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c, stats.Categories[c])
	}

	return nil
}

// PrintNotification prints a notification with its action hint.
func (t *TablePrinter) PrintNotification(n model.Notification) error {
	if n.Action == nil {
		fmt.Fprintln(t.writer, n.Message)
		return nil
	}

	fmt.Fprintf(t.writer, "%s (%s)\n", n.Message, actionColor.Sprint(n.Action.Label))
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func checkbox(done bool) string {
	if done {
		return doneColor.Sprint("[x]")
	}
	return "[ ]"
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '-'
		}
	}
	return "[" + string(bar) + "]"
}
