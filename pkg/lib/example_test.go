package lib_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/slok/tdo/pkg/lib"
)

// This example shows how to manage tasks with an in-memory list.
func Example_tasks() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		DataDir: os.TempDir(),
		Storage: lib.StorageMemory,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	report, _ := client.AddTask(ctx, "Write report", lib.CategoryKerja)
	_, _ = client.AddTask(ctx, "Essay", lib.CategoryKuliah)
	_, _ = client.ToggleTask(ctx, report.ID)

	todo, _ := client.ListTasks(ctx, &lib.ListTasksOpts{Status: lib.StatusTodo})
	for _, t := range todo {
		fmt.Printf("%s (%s)\n", t.Text, t.Category)
	}

	stats, _ := client.Stats(ctx)
	fmt.Printf("Progress: %d%%\n", stats.Progress)

	// Output:
	// Essay (Kuliah)
	// Progress: 50%
}

// This example shows how to check the validation errors.
func Example_errors() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		DataDir: os.TempDir(),
		Storage: lib.StorageMemory,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	_, _ = client.AddTask(ctx, "Buy milk", lib.CategoryPersonal)
	_, err = client.AddTask(ctx, "buy   MILK", lib.CategoryPersonal)
	if errors.Is(err, lib.ErrDuplicate) {
		fmt.Println("Duplicate task")
	}

	// Output:
	// Duplicate task
}
