// Package history records one event per audit run in a JSON-lines log and
// answers queries over it.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Event describes one audit run.
type Event struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	User        string         `json:"user"`
	InputDir    string         `json:"input_dir"`
	Output      string         `json:"output,omitempty"`
	Format      string         `json:"format,omitempty"`
	Devices     int            `json:"devices"`
	Rows        int            `json:"rows"`
	ColorCounts map[string]int `json:"color_counts,omitempty"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

// Filter selects runs for "history list". Zero fields match anything.
type Filter struct {
	InputDir    string
	User        string
	StartTime   time.Time
	FailureOnly bool
	Limit       int
}

// NewEvent creates an event for a run. An empty runID gets a fresh UUID.
func NewEvent(runID, user, inputDir string) *Event {
	if runID == "" {
		runID = uuid.New().String()
	}
	return &Event{
		ID:        runID,
		Timestamp: time.Now(),
		User:      user,
		InputDir:  inputDir,
	}
}

// WithOutput records where and how the report was written.
func (e *Event) WithOutput(path, format string) *Event {
	e.Output = path
	e.Format = format
	return e
}

// WithResult records the report totals.
func (e *Event) WithResult(devices, rows int, colorCounts map[string]int) *Event {
	e.Devices = devices
	e.Rows = rows
	e.ColorCounts = colorCounts
	return e
}

// WithSuccess marks the run as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the run as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the run duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}
