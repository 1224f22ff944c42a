// Package validate has the rules a task text must satisfy before it enters the collection.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/slok/tdo/internal/model"
)

// MaxTextLength is the maximum number of characters of a normalized task text.
const MaxTextLength = 100

// Normalize collapses whitespace runs into a single space and trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ForAdd validates a new task text for a category against the current tasks.
// On success it returns the normalized text that should be stored.
func ForAdd(text string, category model.Category, tasks []model.Task) (string, error) {
	return check(text, category, "", tasks)
}

// ForEdit is like ForAdd but ignores the task with excludeID in the duplicate
// scan, so saving a task without changes is never a duplicate of itself.
func ForEdit(text string, category model.Category, excludeID string, tasks []model.Task) (string, error) {
	return check(text, category, excludeID, tasks)
}

func check(text string, category model.Category, excludeID string, tasks []model.Task) (string, error) {
	n := Normalize(text)
	if n == "" {
		return "", fmt.Errorf("text is required: %w", model.ErrEmpty)
	}

	if l := utf8.RuneCountInString(n); l > MaxTextLength {
		return "", fmt.Errorf("text has %d characters, max is %d: %w", l, MaxTextLength, model.ErrTooLong)
	}

	if IsDuplicate(n, category, excludeID, tasks) {
		return "", fmt.Errorf("%q in %s: %w", n, category, model.ErrDuplicate)
	}

	return n, nil
}

// IsDuplicate returns true if a task other than excludeID has the same category and
// the same normalized text ignoring case.
func IsDuplicate(text string, category model.Category, excludeID string, tasks []model.Task) bool {
	key := strings.ToLower(Normalize(text))
	for _, t := range tasks {
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		if t.Category == category && strings.ToLower(Normalize(t.Text)) == key {
			return true
		}
	}
	return false
}
