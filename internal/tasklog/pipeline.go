// Package tasklog decides whether a submitted task is a recent duplicate
// and, if not, appends it to the row store.
package tasklog

import (
	"context"
	"fmt"
	"time"

	"task-logger/internal/common/errors"
	"task-logger/internal/common/logging"
	"task-logger/internal/models"
	"task-logger/internal/sheets"
)

const (
	// DefaultWindow is how long an appended task suppresses resubmission.
	DefaultWindow = 24 * time.Hour
	// DefaultLookback is how many trailing rows are scanned for duplicates.
	DefaultLookback = 150
)

// Submission is a validated, normalized task ready to be logged.
type Submission struct {
	Task     string
	Assignee models.Assignee
	Priority models.Priority
	Deadline string
	Notes    []string
}

// Result reports what Submit did.
type Result struct {
	Duplicate bool
}

// Options tunes a Pipeline. Zero values fall back to the defaults.
type Options struct {
	Window   time.Duration
	Lookback int
	Now      func() time.Time
	Logger   logging.Logger
}

// Pipeline runs the check-then-append sequence. The check and the append
// are not atomic: two identical submissions racing each other may both
// be written.
type Pipeline struct {
	gateway  sheets.Gateway
	window   time.Duration
	lookback int
	now      func() time.Time
	logger   logging.Logger
}

// New creates a pipeline writing to gateway.
func New(gateway sheets.Gateway, opts Options) *Pipeline {
	p := &Pipeline{
		gateway:  gateway,
		window:   opts.Window,
		lookback: opts.Lookback,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if p.window <= 0 {
		p.window = DefaultWindow
	}
	if p.lookback <= 0 {
		p.lookback = DefaultLookback
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = logging.WithFields(logging.Field{Key: "component", Value: "tasklog"})
	}
	return p
}

// Submit appends s unless the same task and deadline were logged within
// the window. Failures while checking are logged and treated as "not a
// duplicate"; a failed append is returned.
func (p *Pipeline) Submit(ctx context.Context, s Submission) (Result, error) {
	now := p.now()
	logger := p.logger.WithContext(ctx)

	duplicate, err := p.isDuplicate(ctx, s, now)
	if err != nil {
		logger.Warn("Duplicate check failed, appending anyway",
			logging.Field{Key: "task", Value: s.Task},
			logging.Field{Key: "error", Value: err.Error()},
		)
	}
	if duplicate {
		logger.Info("Duplicate task suppressed",
			logging.Field{Key: "task", Value: s.Task},
			logging.Field{Key: "deadline", Value: s.Deadline},
		)
		return Result{Duplicate: true}, nil
	}

	record := models.TaskRecord{
		Timestamp: models.FormatTimestamp(now),
		Task:      s.Task,
		Assignee:  s.Assignee,
		Priority:  s.Priority,
		Deadline:  s.Deadline,
		Notes:     s.Notes,
	}

	if err := p.gateway.AppendRow(ctx, record.Row()); err != nil {
		logger.Error("Failed to append task", err, logging.Field{Key: "task", Value: s.Task})
		if _, ok := errors.As(err); ok {
			return Result{}, err
		}
		return Result{}, errors.RemoteStoreError("failed to append row", err)
	}

	logger.Info("Task logged",
		logging.Field{Key: "task", Value: s.Task},
		logging.Field{Key: "assignee", Value: string(s.Assignee)},
		logging.Field{Key: "priority", Value: string(s.Priority)},
	)
	return Result{}, nil
}

// isDuplicate scans the trailing rows. The first row of the scanned slice
// is skipped as the header; once the sheet outgrows the lookback that row
// is a real task and goes unchecked.
func (p *Pipeline) isDuplicate(ctx context.Context, s Submission, now time.Time) (bool, error) {
	rows, err := p.gateway.ReadAllRows(ctx)
	if err != nil {
		return false, err
	}

	recent := rows
	if len(recent) > p.lookback {
		recent = recent[len(recent)-p.lookback:]
	}
	if len(recent) > 0 {
		recent = recent[1:]
	}

	for _, row := range recent {
		rec := models.RecordFromRow(row)
		if rec.Task != s.Task || rec.Deadline != s.Deadline {
			continue
		}
		if rec.Timestamp == "" {
			continue
		}

		ts, err := ParseTimestamp(rec.Timestamp)
		if err != nil {
			return false, err
		}
		if now.Sub(ts) <= p.window {
			return true, nil
		}
	}
	return false, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp reads an ISO-8601 datetime carrying a UTC offset, with
// either "T" or a space between date and time.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
