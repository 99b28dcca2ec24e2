package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the to-do storage operations the assistant consumes.
type Store interface {
	// Add creates a task with the given text and returns it.
	Add(text string) (Task, error)

	// SetDone sets the done flag of a task by ID.
	SetDone(id string, done bool) error

	// Remove deletes a task by ID.
	Remove(id string) error

	// List returns all tasks sorted by creation time ascending.
	List() []Task

	// Watch returns a channel receiving a full snapshot after every
	// mutation, starting with the current state. The returned cancel
	// function unsubscribes and closes the channel.
	Watch() (<-chan []Task, func())
}

// JSONStore implements Store using a JSON file for persistence.
type JSONStore struct {
	path  string
	tasks map[string]Task
	mu    sync.Mutex

	watchers map[int]chan []Task
	nextID   int
}

// storeData is the JSON structure for the store file.
type storeData struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updated_at"`
	Tasks     []Task `json:"tasks"`
}

const currentVersion = 1

// snapshot buffer per watcher; a slow consumer drops older snapshots
// rather than blocking mutations.
const watchBuffer = 8

// NewJSONStore creates a new JSON-backed store at the given path.
// If the file doesn't exist, it will be created on first mutation.
func NewJSONStore(path string) (*JSONStore, error) {
	store := &JSONStore{
		path:     path,
		tasks:    make(map[string]Task),
		watchers: make(map[int]chan []Task),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := store.load(); err != nil {
			return nil, fmt.Errorf("failed to load store: %w", err)
		}
	}

	return store, nil
}

// load reads the store from disk.
func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var stored storeData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	s.tasks = make(map[string]Task)
	for _, t := range stored.Tasks {
		s.tasks[t.ID] = t
	}

	return nil
}

// save writes the store to disk. Caller must hold the mutex.
func (s *JSONStore) save() error {
	stored := storeData{
		Version:   currentVersion,
		UpdatedAt: time.Now().Format(time.RFC3339),
		Tasks:     s.sorted(),
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Write to temp file first, then rename (atomic write)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// sorted returns all tasks ordered by creation time ascending.
// Caller must hold the mutex. Delivery order from disk or watchers never
// changes this ordering; it is the display and voice enumeration order.
func (s *JSONStore) sorted() []Task {
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}

// notify pushes the current snapshot to all watchers.
// Caller must hold the mutex.
func (s *JSONStore) notify() {
	snapshot := s.sorted()
	for _, ch := range s.watchers {
		select {
		case ch <- snapshot:
		default:
			// Drop for slow consumers; the next mutation resends
			// a complete snapshot anyway.
		}
	}
}

// Add creates a task with the given text.
func (s *JSONStore) Add(text string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := Task{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.tasks[task.ID] = task

	if err := s.save(); err != nil {
		delete(s.tasks, task.ID)
		return Task{}, err
	}

	s.notify()
	return task, nil
}

// SetDone sets the done flag of a task.
func (s *JSONStore) SetDone(id string, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	task.Done = done
	s.tasks[id] = task

	if err := s.save(); err != nil {
		return err
	}

	s.notify()
	return nil
}

// Remove deletes a task by ID.
func (s *JSONStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	delete(s.tasks, id)

	if err := s.save(); err != nil {
		return err
	}

	s.notify()
	return nil
}

// List returns all tasks sorted by creation time ascending.
func (s *JSONStore) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

// Count returns the number of tasks.
func (s *JSONStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Watch subscribes to snapshot updates. The channel immediately receives
// the current state, then one snapshot per mutation.
func (s *JSONStore) Watch() (<-chan []Task, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan []Task, watchBuffer)
	ch <- s.sorted()
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(c)
		}
	}

	return ch, cancel
}

// Path returns the file path of the store.
func (s *JSONStore) Path() string {
	return s.path
}
