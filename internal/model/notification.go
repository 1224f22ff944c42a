package model

import "time"

// ActionKind identifies what a notification action does when consumed.
type ActionKind string

const (
	// ActionUndo restores the snapshot of a soft-delete batch.
	ActionUndo ActionKind = "undo"
)

// Action is the value bound to a notification. It is interpreted by whoever
// consumes the notification instead of carrying executable code.
type Action struct {
	Kind  ActionKind
	Label string
	// Batch is the soft-delete batch the action refers to.
	Batch string
	// Snapshot holds the tasks as they were when the batch was requested.
	Snapshot []Task
}

// Notification is a transient message shown to the user.
type Notification struct {
	Message   string
	Action    *Action
	ExpiresAt time.Time
}
