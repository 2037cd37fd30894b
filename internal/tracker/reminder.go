package tracker

import (
	"context"
	"fmt"

	"todotrack/internal/service"
)

// SendReminder asks the backend to send a reminder email and returns the
// status line to show. It does not touch the store, so it may run on any
// goroutine.
//
// Without a backend it waits twice the mock delay and reports a mock send.
func (t *Tracker) SendReminder(ctx context.Context, kind service.ReminderType) (string, error) {
	if t.remote == nil {
		t.log.Infof("simulating %s reminder", kind)
		if err := sleep(ctx, 2*t.mockDelay); err != nil {
			return "", err
		}
		return fmt.Sprintf("Mock %s reminder email \"sent\" successfully!", kind), nil
	}

	msg, err := t.remote.SendReminder(ctx, kind)
	if err != nil {
		t.log.Warnf("sending %s reminder: %v", kind, err)
		return "", &ReminderError{Type: kind, Err: err}
	}
	if msg == "" {
		msg = fmt.Sprintf("%s reminder email sent successfully!", kind)
	}
	return msg, nil
}

// ReminderError is a failed reminder send.
type ReminderError struct {
	Type service.ReminderType
	Err  error
}

func (e *ReminderError) Error() string {
	return fmt.Sprintf("Error sending %s reminder: %s", e.Type, e.reason())
}

func (e *ReminderError) Unwrap() error { return e.Err }

func (e *ReminderError) reason() string {
	if msg := service.ServerMessage(e.Err); msg != "" {
		return msg
	}
	switch service.KindOf(e.Err) {
	case service.KindProtocol:
		return "Received non-JSON response from server during reminder."
	case service.KindApplication:
		return fmt.Sprintf("Failed to send %s reminder.", e.Type)
	}
	return e.Err.Error()
}
