package webapp

import (
	"bytes"
	"encoding/json"
	"strings"

	"todotrack/internal/service"
)

// envelope is the response shape shared by every action.
type envelope struct {
	Success bool            `json:"success"`
	ID      flexString      `json:"id"`
	Message string          `json:"message"`
	Todos   json.RawMessage `json:"todos"`
}

// wireTask is a task as the spreadsheet script returns it. Values come
// straight from sheet cells, so ids may be numbers and dates may be null.
type wireTask struct {
	ID           flexString     `json:"id"`
	Description  flexString     `json:"taskDescription"`
	Status       flexString     `json:"status"`
	DueDate      flexString     `json:"dueDate"`
	Skills       service.Skills `json:"skills"`
	AssignedDate flexString     `json:"assignedDate"`
}

func (w wireTask) toTask() service.Task {
	skills := w.Skills
	if skills == nil {
		skills = service.Skills{}
	}
	return service.Task{
		ID:           string(w.ID),
		Description:  string(w.Description),
		Status:       service.Status(w.Status),
		DueDate:      string(w.DueDate),
		Skills:       skills,
		AssignedDate: string(w.AssignedDate),
	}
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// isArray reports whether raw holds a JSON array.
func isArray(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "[")
}
