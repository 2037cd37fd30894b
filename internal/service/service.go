// Package service defines the backend-agnostic task model and remote contract.
package service

import (
	"context"
	"errors"
)

// Service defines the interface for remote task sync.
// Every backend (Apps Script web app, Sheets API) goes through this interface.
// The tracker never imports a backend directly.
type Service interface {
	// FetchTasks returns every task held by the remote, in remote order.
	FetchTasks(ctx context.Context) ([]Task, error)

	// AddTask creates a task and returns the server-issued ID.
	AddTask(ctx context.Context, task NewTask) (string, error)

	// UpdateStatus sets the status of the task with the given ID.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error

	// SendReminder asks the remote to send a reminder email.
	// Returns the server's message, which may be empty.
	SendReminder(ctx context.Context, kind ReminderType) (string, error)
}

// ErrorKind classifies a sync failure.
type ErrorKind int

const (
	// KindTransport means the request could not be sent or the response
	// could not be received, including non-2xx HTTP statuses.
	KindTransport ErrorKind = iota + 1

	// KindProtocol means the response body was not a parseable envelope.
	KindProtocol

	// KindApplication means the remote answered with success=false
	// (or omitted a required field).
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindApplication:
		return "application"
	}
	return "unknown"
}

// SyncError is returned by backends for any failed remote call.
type SyncError struct {
	Kind ErrorKind

	// Message is the server-supplied message, if any.
	Message string

	Err error
}

func (e *SyncError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Kind.String() + " error: " + e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *SyncError) Unwrap() error { return e.Err }

// KindOf returns the kind of a sync error, or KindTransport for any other
// non-nil error.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransport
}

// ServerMessage returns the server-supplied message carried by err, if any.
func ServerMessage(err error) string {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
