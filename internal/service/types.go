// Package service defines the backend-agnostic task model and remote contract.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Toggled returns the status a toggle moves to.
// Completed goes back to Pending; everything else becomes Completed.
// There is no path into In Progress.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// IsCompleted reports whether s is the Completed status.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// Task represents a single task record.
type Task struct {
	ID           string `json:"id"`
	Description  string `json:"taskDescription"`
	Status       Status `json:"status"`
	DueDate      string `json:"dueDate,omitempty"`
	Skills       Skills `json:"skills"`
	AssignedDate string `json:"assignedDate,omitempty"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.Skills != nil {
		c.Skills = append(Skills(nil), t.Skills...)
	}
	return c
}

// NewTask is the payload sent when creating a task. The server issues the ID.
type NewTask struct {
	Description  string  `json:"taskDescription"`
	Status       Status  `json:"status"`
	DueDate      *string `json:"dueDate"`
	Skills       Skills  `json:"skills"`
	AssignedDate string  `json:"assignedDate"`
}

// Payload converts t into the creation payload, dropping the client-side ID.
func (t Task) Payload() NewTask {
	p := NewTask{
		Description:  t.Description,
		Status:       t.Status,
		Skills:       t.Skills,
		AssignedDate: t.AssignedDate,
	}
	if p.Skills == nil {
		p.Skills = Skills{}
	}
	if t.DueDate != "" {
		due := t.DueDate
		p.DueDate = &due
	}
	return p
}

// Skills is an ordered list of skill names.
// It decodes from a JSON array, a comma-delimited string, or null.
type Skills []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = Skills{}
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = SplitSkills(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("skills: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*s = list
	return nil
}

// SplitSkills splits a comma-delimited string and trims each part.
// An empty string yields an empty list. Empty parts are kept, matching
// what the remote sends.
func SplitSkills(raw string) Skills {
	if raw == "" {
		return Skills{}
	}
	parts := strings.Split(raw, ",")
	out := make(Skills, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// ParseSkillsInput parses user-typed skills: comma-separated, trimmed,
// empty entries dropped.
func ParseSkillsInput(raw string) Skills {
	out := Skills{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReminderType selects which reminder email to send.
type ReminderType string

const (
	ReminderMorning ReminderType = "morning"
	ReminderEvening ReminderType = "evening"
)

// ParseReminderType validates a reminder type name.
func ParseReminderType(s string) (ReminderType, error) {
	switch ReminderType(strings.ToLower(strings.TrimSpace(s))) {
	case ReminderMorning:
		return ReminderMorning, nil
	case ReminderEvening:
		return ReminderEvening, nil
	}
	return "", fmt.Errorf("invalid reminder type: %s", s)
}
