package lib

import "errors"

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input is invalid.
	ErrNotValid = errors.New("not valid")
	// ErrEmpty is returned when a task text is empty after normalization.
	ErrEmpty = errors.New("empty text")
	// ErrTooLong is returned when a task text is longer than the limit.
	ErrTooLong = errors.New("text too long")
	// ErrDuplicate is returned when a task with the same text exists in the category.
	ErrDuplicate = errors.New("duplicate task")
	// ErrMalformed is returned when imported data is not a valid task list.
	ErrMalformed = errors.New("malformed data")
)
