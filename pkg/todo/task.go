// Package todo provides the persistent to-do list behind aria's
// task commands. Tasks live in a JSON file and are observed through a
// push-based snapshot subscription.
package todo

import "time"

// Task is a single to-do item.
// The ID is assigned by the store and stable for the task's lifetime.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"task"`
	Done      bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}
