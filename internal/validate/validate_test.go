package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/validate"
)

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		text   string
		expOut string
	}{
		"Empty text should stay empty":              {text: "", expOut: ""},
		"Only whitespace should be empty":           {text: " \t\n  ", expOut: ""},
		"Ends should be trimmed":                    {text: "  buy milk  ", expOut: "buy milk"},
		"Inner whitespace runs should be collapsed": {text: "buy \t\n  milk", expOut: "buy milk"},
		"Already normalized text should not change": {text: "buy milk", expOut: "buy milk"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expOut, validate.Normalize(test.text))
		})
	}
}

func TestForAdd(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Text: "Buy milk", Category: model.CategoryPersonal},
		{ID: "2", Text: "Write report", Category: model.CategoryKerja},
	}

	tests := map[string]struct {
		text     string
		category model.Category
		expText  string
		expErr   error
	}{
		"A valid text should be normalized and accepted": {
			text:     "  Call   mom ",
			category: model.CategoryPersonal,
			expText:  "Call mom",
		},
		"An empty text should fail": {
			text:     "   ",
			category: model.CategoryPersonal,
			expErr:   model.ErrEmpty,
		},
		"A text of exactly the max length should be accepted": {
			text:     strings.Repeat("a", validate.MaxTextLength),
			category: model.CategoryPersonal,
			expText:  strings.Repeat("a", validate.MaxTextLength),
		},
		"A text over the max length should fail": {
			text:     strings.Repeat("a", validate.MaxTextLength+1),
			category: model.CategoryPersonal,
			expErr:   model.ErrTooLong,
		},
		"Length should be measured after normalization": {
			text:     "   " + strings.Repeat("a", validate.MaxTextLength) + "    ",
			category: model.CategoryPersonal,
			expText:  strings.Repeat("a", validate.MaxTextLength),
		},
		"Length should count characters, not bytes": {
			text:     strings.Repeat("é", validate.MaxTextLength),
			category: model.CategoryPersonal,
			expText:  strings.Repeat("é", validate.MaxTextLength),
		},
		"Same text with different case and spacing in the same category should be a duplicate": {
			text:     "buy   MILK",
			category: model.CategoryPersonal,
			expErr:   model.ErrDuplicate,
		},
		"Same text in another category should be accepted": {
			text:     "Buy milk",
			category: model.CategoryKerja,
			expText:  "Buy milk",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gotText, err := validate.ForAdd(test.text, test.category, tasks)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expText, gotText)
			}
		})
	}
}

func TestForEdit(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Text: "Buy milk", Category: model.CategoryPersonal},
		{ID: "2", Text: "Buy bread", Category: model.CategoryPersonal},
	}

	tests := map[string]struct {
		text      string
		excludeID string
		expErr    error
	}{
		"Saving a task without changes should not be a duplicate of itself": {
			text:      "Buy milk",
			excludeID: "1",
		},
		"Changing only the case of a task should be accepted": {
			text:      "buy MILK",
			excludeID: "1",
		},
		"Editing into the text of another task should be a duplicate": {
			text:      "buy bread",
			excludeID: "1",
			expErr:    model.ErrDuplicate,
		},
		"Editing into an empty text should fail": {
			text:      "",
			excludeID: "1",
			expErr:    model.ErrEmpty,
		},
		"Editing into a too long text should fail": {
			text:      strings.Repeat("x", validate.MaxTextLength+1),
			excludeID: "1",
			expErr:    model.ErrTooLong,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := validate.ForEdit(test.text, model.CategoryPersonal, test.excludeID, tasks)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
