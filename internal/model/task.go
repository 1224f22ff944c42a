package model

import (
	"time"
)

// Category is the classification tag of a task.
type Category string

const (
	CategoryKuliah   Category = "Kuliah"
	CategoryKerja    Category = "Kerja"
	CategoryPersonal Category = "Personal"
	CategoryLainnya  Category = "Lainnya"
)

// Categories is the closed set of known categories, in display order.
// The first one is the fallback for unknown values.
var Categories = []Category{
	CategoryKuliah,
	CategoryKerja,
	CategoryPersonal,
	CategoryLainnya,
}

// DefaultCategory is used when a category is missing or unknown.
const DefaultCategory = CategoryKuliah

// ParseCategory returns the known category matching s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Task represents a single trackable item.
type Task struct {
	ID        string
	Text      string
	Category  Category
	Completed bool
	CreatedAt time.Time
}

// CloneTasks returns a copy of the tasks slice, never nil.
func CloneTasks(tasks []Task) []Task {
	c := make([]Task, len(tasks))
	copy(c, tasks)
	return c
}

// Stats are the aggregated values of a task collection.
type Stats struct {
	Total     int
	Completed int
	// Progress is the completed percentage, rounded to the nearest integer.
	Progress   int
	Categories map[Category]int
}
