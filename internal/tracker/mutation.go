package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todotrack/internal/service"
	"todotrack/internal/store"
)

var (
	// ErrTaskNotFound is returned when a mutation names an unknown task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyDescription is returned when a new task has no description.
	ErrEmptyDescription = errors.New("Task description cannot be empty.")

	// ErrInvalidDueDate is returned when a due date is not YYYY-MM-DD.
	ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD")
)

// Op identifies a store mutation.
type Op int

const (
	OpToggle Op = iota + 1
	OpAdd
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpToggle:
		return "toggle"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Outcome is how a mutation ended.
type Outcome int

const (
	// Local means no backend is configured; the optimistic state is final.
	Local Outcome = iota + 1

	// Confirmed means the backend accepted the change.
	Confirmed

	// Reverted means the backend call failed and the store was restored.
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case Local:
		return "local"
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	}
	return "unknown"
}

// Result reports a settled mutation.
type Result struct {
	Op      Op
	Outcome Outcome

	// TaskID is the id of the affected task. For a confirmed add it is the
	// server-issued id.
	TaskID string

	// Err is the remote failure behind a Reverted outcome.
	Err error
}

// Message returns the user-facing notice for a reverted mutation, or "".
func (r Result) Message() string {
	if r.Outcome != Reverted || r.Err == nil {
		return ""
	}

	verb, noun, fallback := "updating", "update", "Server error"
	switch r.Op {
	case OpAdd:
		verb, noun, fallback = "adding", "new task", "Server error or no ID returned"
	case OpDelete:
		verb, noun = "deleting", "deletion"
	}

	msg := service.ServerMessage(r.Err)
	switch service.KindOf(r.Err) {
	case service.KindProtocol:
		return fmt.Sprintf("Error %s task: Received non-JSON response from server.", verb)
	case service.KindApplication:
		if msg == "" {
			msg = fallback
		}
		return fmt.Sprintf("Error %s task: %s", verb, msg)
	}
	if msg != "" {
		return fmt.Sprintf("Error %s task: %s", verb, msg)
	}
	return fmt.Sprintf("Failed to sync %s with server. Please check your connection.", noun)
}

// Draft is user input for a new task.
type Draft struct {
	Description string

	// DueDate is empty or YYYY-MM-DD.
	DueDate string

	// Skills is the raw comma-separated input.
	Skills string
}

// Pending is a mutation that has been applied to the store but not yet
// confirmed. Commit may run on any goroutine; Settle must run on the
// tracker's.
type Pending struct {
	op     Op
	snap   store.Snapshot
	taskID string
	status service.Status
	task   service.NewTask
	remote service.Service

	committed bool
	serverID  string
	err       error
}

// Op returns the kind of mutation.
func (p *Pending) Op() Op { return p.op }

// TaskID returns the id the mutation applies to. For an add this is the
// temporary id.
func (p *Pending) TaskID() string { return p.taskID }

// Commit sends the mutation to the backend. It is a no-op without one.
func (p *Pending) Commit(ctx context.Context) {
	if p.remote == nil || p.committed {
		return
	}
	p.committed = true

	switch p.op {
	case OpToggle:
		p.err = p.remote.UpdateStatus(ctx, p.taskID, p.status)
	case OpAdd:
		p.serverID, p.err = p.remote.AddTask(ctx, p.task)
	case OpDelete:
		p.err = p.remote.DeleteTask(ctx, p.taskID)
	}
}

// BeginToggle flips the completion state of a task in the store.
func (t *Tracker) BeginToggle(ctx context.Context, id string) (*Pending, error) {
	cur, ok := t.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	p := t.begin(OpToggle, id)
	p.status = cur.Status.Toggled()
	t.store.Update(id, func(task *service.Task) {
		task.Status = p.status
	})
	t.log.Debugf("toggle %s to %s", id, p.status)
	t.persist(ctx)
	return p, nil
}

// BeginAdd validates a draft and inserts it at the front of the store under
// a temporary id.
func (t *Tracker) BeginAdd(ctx context.Context, d Draft) (*Pending, error) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return nil, ErrEmptyDescription
	}
	due := strings.TrimSpace(d.DueDate)
	if due != "" {
		if _, err := time.Parse(DateLayout, due); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDueDate, due)
		}
	}

	task := service.Task{
		ID:           TempIDPrefix + t.newID(),
		Description:  desc,
		Status:       service.StatusPending,
		DueDate:      due,
		Skills:       service.ParseSkillsInput(d.Skills),
		AssignedDate: t.now().UTC().Format(DateLayout),
	}

	p := t.begin(OpAdd, task.ID)
	p.task = task.Payload()
	t.store.Prepend(task)
	t.log.Debugf("add %s", task.ID)
	t.persist(ctx)
	return p, nil
}

// BeginDelete removes a task from the store.
func (t *Tracker) BeginDelete(ctx context.Context, id string) (*Pending, error) {
	if _, ok := t.store.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	p := t.begin(OpDelete, id)
	t.store.Remove(id)
	t.log.Debugf("delete %s", id)
	t.persist(ctx)
	return p, nil
}

func (t *Tracker) begin(op Op, id string) *Pending {
	return &Pending{
		op:     op,
		snap:   t.store.Snapshot(),
		taskID: id,
		remote: t.remote,
	}
}

// Settle confirms or reverts a committed mutation.
//
// A failed mutation restores the snapshot taken when it began, discarding
// anything applied since.
func (t *Tracker) Settle(ctx context.Context, p *Pending) Result {
	res := Result{Op: p.op, TaskID: p.taskID}

	if p.remote == nil {
		res.Outcome = Local
		return res
	}

	if p.err != nil {
		t.log.Warnf("%s %s failed, reverting: %v", p.op, p.taskID, p.err)
		t.store.Restore(p.snap)
		t.persist(ctx)
		res.Outcome = Reverted
		res.Err = p.err
		return res
	}

	if p.op == OpAdd {
		if p.serverID == "" {
			p.serverID = p.taskID
		}
		t.store.Update(p.taskID, func(task *service.Task) {
			task.ID = p.serverID
		})
		res.TaskID = p.serverID
		t.persist(ctx)
	}

	res.Outcome = Confirmed
	return res
}

// Toggle flips a task's status and syncs it.
func (t *Tracker) Toggle(ctx context.Context, id string) (Result, error) {
	p, err := t.BeginToggle(ctx, id)
	if err != nil {
		return Result{}, err
	}
	p.Commit(ctx)
	return t.Settle(ctx, p), nil
}

// Add creates a task from a draft and syncs it.
func (t *Tracker) Add(ctx context.Context, d Draft) (Result, error) {
	p, err := t.BeginAdd(ctx, d)
	if err != nil {
		return Result{}, err
	}
	p.Commit(ctx)
	return t.Settle(ctx, p), nil
}

// Delete removes a task and syncs the removal.
func (t *Tracker) Delete(ctx context.Context, id string) (Result, error) {
	p, err := t.BeginDelete(ctx, id)
	if err != nil {
		return Result{}, err
	}
	p.Commit(ctx)
	return t.Settle(ctx, p), nil
}
