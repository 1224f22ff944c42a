package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")

	// ErrEmpty is returned when a task text is empty after normalization.
	ErrEmpty = errors.New("task text is empty")
	// ErrTooLong is returned when a task text exceeds the maximum length.
	ErrTooLong = errors.New("task text is too long")
	// ErrDuplicate is returned when a task with the same text already exists in the category.
	ErrDuplicate = errors.New("task already exists in category")
	// ErrMalformed is returned when imported data can't be decoded into tasks.
	ErrMalformed = errors.New("malformed task data")
)
