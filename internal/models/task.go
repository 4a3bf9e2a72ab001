package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Assignee is the closed set of people a task can be assigned to.
type Assignee string

const (
	AssigneeShannon Assignee = "Shannon"
	AssigneeKari    Assignee = "Kari"
	AssigneeSonya   Assignee = "Sonya"
	AssigneeMichael Assignee = "Michael"
	AssigneeOther   Assignee = "Other"
)

// Assignees lists every valid assignee in display order.
var Assignees = []Assignee{AssigneeShannon, AssigneeKari, AssigneeSonya, AssigneeMichael, AssigneeOther}

// Valid reports whether a is one of the known assignees.
func (a Assignee) Valid() bool {
	for _, known := range Assignees {
		if a == known {
			return true
		}
	}
	return false
}

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityMissionCritical Priority = "Mission-Critical"
	PriorityTactical        Priority = "Tactical"
	PriorityCanWait         Priority = "Can Wait"
)

// Priorities lists every valid priority, most urgent first.
var Priorities = []Priority{PriorityMissionCritical, PriorityTactical, PriorityCanWait}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// DeadlineLength is the length of a YYYY-MM-DD deadline.
const DeadlineLength = 10

// TimestampLayout is how row timestamps are written: ISO-8601 UTC with
// microseconds and a numeric offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// FormatTimestamp renders t in the row timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// TaskRequest is the POST /add_task body. Pointers distinguish a missing
// key from an empty value.
type TaskRequest struct {
	Task       *string   `json:"Task"`
	Priority   *Priority `json:"Priority"`
	Deadline   *string   `json:"Deadline"`
	AssignedTo *Assignee `json:"Assigned To"`
}

// UnmarshalJSON matches keys exactly. A key in any other case counts as
// absent.
func (r *TaskRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = TaskRequest{}
	fields := []struct {
		key  string
		dest interface{}
	}{
		{"Task", &r.Task},
		{"Priority", &r.Priority},
		{"Deadline", &r.Deadline},
		{"Assigned To", &r.AssignedTo},
	}
	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.dest); err != nil {
			return fmt.Errorf("field '%s': %w", f.key, err)
		}
	}
	return nil
}

// MissingField returns the first required key absent (or null) in the
// body, or "" when all are present.
func (r *TaskRequest) MissingField() string {
	switch {
	case r.Task == nil:
		return "Task"
	case r.Priority == nil:
		return "Priority"
	case r.Deadline == nil:
		return "Deadline"
	}
	return ""
}

// TaskInput is a decoded request after trimming and defaulting.
type TaskInput struct {
	Task       string
	Priority   Priority
	Deadline   string
	AssignedTo Assignee
}

// Normalize trims the free-text fields and defaults a blank assignee to
// Other. It assumes the required keys are present.
func (r *TaskRequest) Normalize() TaskInput {
	in := TaskInput{AssignedTo: AssigneeOther}
	if r.Task != nil {
		in.Task = strings.TrimSpace(*r.Task)
	}
	if r.Priority != nil {
		in.Priority = *r.Priority
	}
	if r.Deadline != nil {
		in.Deadline = strings.TrimSpace(*r.Deadline)
	}
	if r.AssignedTo != nil {
		if assignee := Assignee(strings.TrimSpace(string(*r.AssignedTo))); assignee != "" {
			in.AssignedTo = assignee
		}
	}
	return in
}

// TaskRecord is one persisted row.
type TaskRecord struct {
	Timestamp string
	Task      string
	Assignee  Assignee
	Priority  Priority
	Deadline  string
	Notes     []string
}

// RowWidth is the number of columns a task row occupies.
const RowWidth = 6

// Row renders the record in column order
// [timestamp, task, assignee, priority, deadline, notes].
func (r TaskRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.Task,
		string(r.Assignee),
		string(r.Priority),
		r.Deadline,
		strings.Join(r.Notes, "; "),
	}
}

// RecordFromRow reads a stored row, padding missing trailing cells.
func RecordFromRow(row []string) TaskRecord {
	cells := make([]string, RowWidth)
	copy(cells, row)

	var notes []string
	if cells[5] != "" {
		notes = strings.Split(cells[5], "; ")
	}

	return TaskRecord{
		Timestamp: cells[0],
		Task:      cells[1],
		Assignee:  Assignee(cells[2]),
		Priority:  Priority(cells[3]),
		Deadline:  cells[4],
		Notes:     notes,
	}
}

// Header is the column header row the sheet is expected to start with.
var Header = []string{"Timestamp", "Task", "Assigned To", "Priority", "Deadline", "Notes"}
