// Package progress derives a project's completion from its tasks.
package progress

import "github.com/DevNiNi18/flowtrack/internal/models"

// Status is the completion label shown for a project.
type Status string

const (
	StatusNotStarted Status = "Not started"
	StatusInProgress Status = "In progress"
	StatusCompleted  Status = "Completed"
)

// Summary is the derived progress of one project.
type Summary struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
	Status    Status `json:"status"`
}

// Compute recounts tasks and returns the rounded completion percentage.
// Halves round up: 1 of 2 is 50, 1 of 3 is 33, 2 of 3 is 67.
func Compute(tasks []models.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}

	if s.Total > 0 {
		s.Percent = (200*s.Completed + s.Total) / (2 * s.Total)
	}
	s.Status = StatusFor(s.Percent)
	return s
}

// StatusFor maps a percentage to its status label.
func StatusFor(percent int) Status {
	switch {
	case percent >= 100:
		return StatusCompleted
	case percent > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}
