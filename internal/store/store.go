// Package store holds the ordered in-memory task collection.
//
// A Store has exactly one owner. It is not safe for concurrent use: every
// mutation is expected to happen on the owner's event loop, so there is no
// locking here.
package store

import "todotrack/internal/service"

// Store is an ordered collection of tasks. New tasks go to the front.
type Store struct {
	tasks []service.Task
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot is an immutable copy of the store contents.
type Snapshot struct {
	tasks []service.Task
}

// Len returns the number of tasks in the snapshot.
func (s Snapshot) Len() int { return len(s.tasks) }

// Replace replaces the whole collection.
func (s *Store) Replace(tasks []service.Task) {
	s.tasks = cloneTasks(tasks)
}

// Prepend inserts a task at the front.
func (s *Store) Prepend(task service.Task) {
	s.tasks = append([]service.Task{task.Clone()}, s.tasks...)
}

// Update applies fn to the task with the given ID in place.
// Returns false (and does nothing) if no task has that ID.
func (s *Store) Update(id string, fn func(*service.Task)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	fn(&s.tasks[i])
	return true
}

// Remove deletes the task with the given ID.
// Returns false if no task has that ID.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return true
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (service.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// At returns a copy of the task at a 0-based position.
func (s *Store) At(pos int) (service.Task, bool) {
	if pos < 0 || pos >= len(s.tasks) {
		return service.Task{}, false
	}
	return s.tasks[pos].Clone(), true
}

// All returns a copy of every task in order.
func (s *Store) All() []service.Task {
	return cloneTasks(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Snapshot captures the current contents.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{tasks: cloneTasks(s.tasks)}
}

// Restore replaces the contents with a previously captured snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.tasks = cloneTasks(snap.tasks)
}

func (s *Store) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
