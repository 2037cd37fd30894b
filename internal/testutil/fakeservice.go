// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"todotrack/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int

	// Calls records every method invoked, in order, as "Method arg".
	Calls []string

	// Error injection for testing
	FetchErr    error
	AddErr      error
	UpdateErr   error
	DeleteErr   error
	ReminderErr error

	// ReminderMessage is returned by SendReminder.
	ReminderMessage string
}

// NewFakeService creates a FakeService holding the given tasks.
func NewFakeService(tasks ...service.Task) *FakeService {
	f := &FakeService{nextID: 100}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t.Clone())
	}
	return f
}

// Tasks returns a copy of the tasks held by the fake remote.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (f *FakeService) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// FetchTasks implements service.Service.
func (f *FakeService) FetchTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchTasks")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, task service.NewTask) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddTask %s", task.Description)
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.nextID++
	id := fmt.Sprintf("%d", f.nextID)
	due := ""
	if task.DueDate != nil {
		due = *task.DueDate
	}
	f.tasks = append([]service.Task{{
		ID:           id,
		Description:  task.Description,
		Status:       task.Status,
		DueDate:      due,
		Skills:       append(service.Skills{}, task.Skills...),
		AssignedDate: task.AssignedDate,
	}}, f.tasks...)
	return id, nil
}

// UpdateStatus implements service.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateStatus %s %s", id, status)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = status
			return nil
		}
	}
	return &service.SyncError{Kind: service.KindApplication, Message: "Task not found"}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask %s", id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.SyncError{Kind: service.KindApplication, Message: "Task not found"}
}

// SendReminder implements service.Service.
func (f *FakeService) SendReminder(ctx context.Context, kind service.ReminderType) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SendReminder %s", kind)
	if f.ReminderErr != nil {
		return "", f.ReminderErr
	}
	return f.ReminderMessage, nil
}
