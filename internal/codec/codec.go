// Package codec converts task collections to and from their portable JSON form,
// used for the file backups and the persisted collection.
package codec

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/validate"
)

// ExportFilename is the suggested name of the exported file.
const ExportFilename = "tasks.json"

type jsonTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"`
}

// Export returns the indented JSON array with every task field.
func Export(tasks []model.Task) ([]byte, error) {
	items := make([]jsonTask, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, jsonTask{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Category:  string(t.Category),
			CreatedAt: t.CreatedAt.UnixMilli(),
		})
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal tasks: %w", err)
	}
	return data, nil
}

// NewID returns a task id made of the creation time and a random suffix.
func NewID(createdAt time.Time) string {
	return ulid.MustNew(ulid.Timestamp(createdAt), rand.Reader).String()
}

// Decoder decodes exported (or hand written) task data.
type Decoder struct {
	// Now is used for tasks without a valid creation time.
	Now func() time.Time
	// NewID is used for tasks without an id.
	NewID func(createdAt time.Time) string
}

// Decode returns the tasks of blob. It's all or nothing: a single invalid
// element fails the whole decode with model.ErrMalformed.
// Duplicates are not checked, the data is trusted once each task is well formed.
func (d Decoder) Decode(blob []byte) ([]model.Task, error) {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	newID := d.NewID
	if newID == nil {
		newID = NewID
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(blob, &elems); err != nil {
		return nil, fmt.Errorf("data is not a list of tasks: %w", model.ErrMalformed)
	}
	if elems == nil {
		// A JSON null decodes without error.
		return nil, fmt.Errorf("data is not a list of tasks: %w", model.ErrMalformed)
	}

	tasks := make([]model.Task, 0, len(elems))
	for i, e := range elems {
		t, err := decodeTask(e, now, newID)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

// Decode decodes blob using the current time and random ids.
func Decode(blob []byte) ([]model.Task, error) {
	return Decoder{}.Decode(blob)
}

func decodeTask(raw json.RawMessage, now func() time.Time, newID func(time.Time) string) (model.Task, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return model.Task{}, err
	}

	textValue := first(fields, "text", "title")
	text, err := stringOf(textValue)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid text: %w", err)
	}
	text = validate.Normalize(text)
	if text == "" {
		return model.Task{}, fmt.Errorf("text is required: %w", model.ErrMalformed)
	}

	category := model.DefaultCategory
	if s, ok := fields["category"].(string); ok {
		if c, ok := model.ParseCategory(s); ok {
			category = c
		}
	}

	createdAt, ok := millisOf(fields["createdAt"])
	if !ok {
		createdAt = now()
	}

	completed := truthy(first(fields, "completed", "done"))

	id, err := stringOf(fields["id"])
	if err != nil || id == "" {
		id = newID(createdAt)
	}

	return model.Task{
		ID:        id,
		Text:      text,
		Category:  category,
		Completed: completed,
		CreatedAt: createdAt,
	}, nil
}

// decodeObject decodes a JSON object keeping numbers as json.Number.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, fmt.Errorf("task is not an object: %w", model.ErrMalformed)
	}
	return fields, nil
}

// first returns the first of keys that is present and not null.
func first(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := fields[k]; v != nil {
			return v
		}
	}
	return nil
}

func stringOf(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("%T can't be used as text: %w", v, model.ErrMalformed)
	}
}

func millisOf(v any) (time.Time, bool) {
	var s string
	switch v := v.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return time.Time{}, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(f)).UTC(), true
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
