package views

import (
	"reflect"
	"testing"

	"todotrack/internal/service"
)

func task(id string, status service.Status, skills ...string) service.Task {
	return service.Task{ID: id, Description: "task " + id, Status: status, Skills: skills}
}

func TestSummarize_PendingIsTotalMinusCompleted(t *testing.T) {
	lists := [][]service.Task{
		nil,
		{task("1", service.StatusPending)},
		{task("1", service.StatusCompleted), task("2", service.StatusInProgress), task("3", service.StatusPending)},
		{task("1", service.StatusCompleted), task("2", service.StatusCompleted)},
	}
	for _, tasks := range lists {
		p := Summarize(tasks)
		if p.Pending != p.Total-p.Completed {
			t.Errorf("pending %d != total %d - completed %d", p.Pending, p.Total, p.Completed)
		}
	}
}

func TestSummarize_PercentRounds(t *testing.T) {
	tasks := []service.Task{
		task("1", service.StatusCompleted),
		task("2", service.StatusPending),
		task("3", service.StatusPending),
	}
	p := Summarize(tasks)
	if p.Percent != 33 {
		t.Errorf("expected 33%%, got %d%%", p.Percent)
	}

	tasks[1].Status = service.StatusCompleted
	if p := Summarize(tasks); p.Percent != 67 {
		t.Errorf("expected 67%%, got %d%%", p.Percent)
	}
}

func TestSummarize_EmptyIsZero(t *testing.T) {
	p := Summarize(nil)
	if p != (Progress{}) {
		t.Errorf("expected zero progress, got %+v", p)
	}
}

func TestSkills_SortedUnionOfCompleted(t *testing.T) {
	tasks := []service.Task{
		task("1", service.StatusCompleted, "b", "a"),
		task("2", service.StatusCompleted, "a", "c"),
		task("3", service.StatusPending, "z"),
		task("4", service.StatusInProgress, "y"),
	}
	got := Skills(tasks)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSkills_NoneCompleted(t *testing.T) {
	got := Skills([]service.Task{task("1", service.StatusPending, "a")})
	if len(got) != 0 {
		t.Errorf("expected no skills, got %v", got)
	}
}

func TestApply_Filters(t *testing.T) {
	tasks := []service.Task{
		task("1", service.StatusCompleted),
		task("2", service.StatusInProgress),
		task("3", service.StatusPending),
	}

	if got := Apply(tasks, FilterAll); len(got) != 3 {
		t.Errorf("all: expected 3, got %d", len(got))
	}

	pending := Apply(tasks, FilterPending)
	if len(pending) != 2 || pending[0].ID != "2" || pending[1].ID != "3" {
		t.Errorf("pending: unexpected %v", pending)
	}

	completed := Apply(tasks, FilterCompleted)
	if len(completed) != 1 || completed[0].ID != "1" {
		t.Errorf("completed: unexpected %v", completed)
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter(" Pending "); err != nil || f != FilterPending {
		t.Errorf("expected pending, got %q (%v)", f, err)
	}
	if _, err := ParseFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if FilterCompleted.Next() != FilterAll {
		t.Error("filter cycle should wrap to all")
	}
}
