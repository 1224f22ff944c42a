// Package lib provides a Go SDK for managing a tdo task list programmatically.
//
// This package allows applications to read and change the same task list the
// tdo CLI uses without shelling out to the binary. It is useful for scripting,
// automation, and building other front-ends on top of tdo.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, err := client.AddTask(ctx, "Write report", lib.CategoryKerja)
//	client.ToggleTask(ctx, task.ID)
//	tasks, err := client.ListTasks(ctx, &lib.ListTasksOpts{Status: lib.StatusTodo})
//
// # Deletion and undo
//
// Deletions are soft: removed tasks stay visible as pending removal for a short
// delay and can be restored with [Client.Undo] while the deletion notification is
// live. [Client.Close] commits every pending removal and saves the pending changes.
//
// By default deletions are confirmed automatically, set [Config].Confirm to ask
// the user.
//
// # Storage
//
// The default backend is a SQLite database in ~/.tdo. Use [StorageMemory] for
// tests and [StorageDiskv] for a plain files store.
//
// # Errors
//
// Returned errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: The task does not exist.
//   - [ErrNotValid]: Invalid input (e.g. unknown category or ambiguous id).
//   - [ErrEmpty], [ErrTooLong], [ErrDuplicate]: Task text rejected.
//   - [ErrMalformed]: Imported data is not a valid task list.
package lib
