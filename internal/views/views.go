// Package views computes derived, read-only views over a task list.
package views

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"todotrack/internal/service"
)

// Filter selects which tasks a list view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, known := range Filters {
		if known == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Matches reports whether a task passes f.
// Pending means anything not Completed, so In Progress tasks are pending.
func (f Filter) Matches(t service.Task) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return t.Status.IsCompleted() == (f == FilterCompleted)
}

// Apply returns the tasks matching f, preserving order.
func Apply(tasks []service.Task, f Filter) []service.Task {
	if f == FilterAll || f == "" {
		return tasks
	}
	var out []service.Task
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Progress summarizes completion.
type Progress struct {
	Total     int
	Completed int
	Pending   int
	Percent   int
}

// Summarize computes completion counts. Pending is always Total-Completed,
// and Percent is 0 for an empty list.
func Summarize(tasks []service.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status.IsCompleted() {
			p.Completed++
		}
	}
	p.Pending = p.Total - p.Completed
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// Skills returns the sorted, de-duplicated skills of completed tasks.
func Skills(tasks []service.Task) []string {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		if !t.Status.IsCompleted() {
			continue
		}
		for _, s := range t.Skills {
			seen[s] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
