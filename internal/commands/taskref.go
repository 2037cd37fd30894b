package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Pos int    // 1-based position in the full list, 0 if ID is set
	ID  string // task id, empty if Pos is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// idPrefix forces an id lookup for ids that are all digits.
const idPrefix = "id:"

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. All digits → position in the list printed by `todotrack list`
//  2. "id:<id>" → task id, even if it is all digits
//  3. Anything else → task id
//
// Only the first argument is used; extra arguments are an error.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		pos, err := strconv.Atoi(arg)
		if err != nil || pos < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %s", arg)
		}
		return TaskRef{Pos: pos}, nil
	}

	if strings.HasPrefix(arg, idPrefix) {
		id := strings.TrimPrefix(arg, idPrefix)
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id}, nil
	}

	return TaskRef{ID: arg}, nil
}

func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Pos)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
