package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending      Status = "pending"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusRendering    Status = "rendering"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusTranscribing,
	StatusTranscribed,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusTranscribing: {},
	StatusRendering:    {},
}

type statusTransition struct {
	from Status
	to   Status
}

// Rollback targets for items left mid-stage by a crashed run.
var stageRollbackTransitions = []statusTransition{
	{from: StatusTranscribing, to: StatusPending},
	{from: StatusRendering, to: StatusTranscribed},
}

// Task selects what the pipeline produces for an item.
type Task string

const (
	// TaskTranscribe produces captions in the spoken language.
	TaskTranscribe Task = "transcribe"
	// TaskTranslate produces captions translated to the configured target
	// language.
	TaskTranslate Task = "translate"
)

// ParseTask validates a user-supplied task name.
func ParseTask(value string) (Task, bool) {
	switch Task(strings.ToLower(strings.TrimSpace(value))) {
	case TaskTranscribe:
		return TaskTranscribe, true
	case TaskTranslate:
		return TaskTranslate, true
	}
	return "", false
}

// Item represents a queue item persisted in SQLite.
type Item struct {
	ID             int64
	SourcePath     string
	Title          string
	Fingerprint    string
	Task           Task
	Language       string
	Status         Status
	ErrorMessage   string
	SubtitleFile   string
	TranscriptFile string
	RenderedFile   string
	AudioFile      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsProcessing reports whether the item is mid-stage.
func (i *Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}
