package webapp

import (
	"encoding/json"
	"fmt"

	"todotrack/internal/service"
)

// Action is the discriminator carried by every request to the web app.
type Action string

const (
	ActionGetTodos          Action = "getTodos"
	ActionAddTodo           Action = "addTodo"
	ActionUpdateTodoStatus  Action = "updateTodoStatus"
	ActionDeleteTodo        Action = "deleteTodo"
	ActionSendEmailReminder Action = "sendEmailReminder"
)

// Request is a POST body sent to the web app. The set of variants is closed:
// only the types in this file implement it.
type Request interface {
	Action() Action
	isRequest()
}

// AddTodo creates a task.
type AddTodo struct {
	Task service.NewTask
}

// UpdateTodoStatus sets a task's status.
type UpdateTodoStatus struct {
	ID     string
	Status service.Status
}

// DeleteTodo removes a task.
type DeleteTodo struct {
	ID string
}

// SendEmailReminder triggers a reminder email.
type SendEmailReminder struct {
	Type service.ReminderType
}

func (AddTodo) Action() Action           { return ActionAddTodo }
func (UpdateTodoStatus) Action() Action  { return ActionUpdateTodoStatus }
func (DeleteTodo) Action() Action        { return ActionDeleteTodo }
func (SendEmailReminder) Action() Action { return ActionSendEmailReminder }

func (AddTodo) isRequest()           {}
func (UpdateTodoStatus) isRequest()  {}
func (DeleteTodo) isRequest()        {}
func (SendEmailReminder) isRequest() {}

// Encode renders a request as the JSON body the web app expects.
func Encode(r Request) ([]byte, error) {
	switch r := r.(type) {
	case AddTodo:
		return json.Marshal(struct {
			Action Action          `json:"action"`
			Task   service.NewTask `json:"task"`
		}{r.Action(), r.Task})
	case UpdateTodoStatus:
		return json.Marshal(struct {
			Action Action         `json:"action"`
			ID     string         `json:"id"`
			Status service.Status `json:"status"`
		}{r.Action(), r.ID, r.Status})
	case DeleteTodo:
		return json.Marshal(struct {
			Action Action `json:"action"`
			ID     string `json:"id"`
		}{r.Action(), r.ID})
	case SendEmailReminder:
		return json.Marshal(struct {
			Action Action               `json:"action"`
			Type   service.ReminderType `json:"type"`
		}{r.Action(), r.Type})
	}
	return nil, fmt.Errorf("unsupported request type %T", r)
}
