package model

import "time"

// SignalSet maps a signal ID to its detected value.
type SignalSet map[string]bool

// CountTrue returns the number of true signals.
func (s SignalSet) CountTrue() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Detection is the result of evaluating a task signals over the submission.
type Detection struct {
	Signals SignalSet
	// Feedback has one line per signal, in rubric order.
	Feedback []string
}

// TaskScore is the score breakdown of a task.
type TaskScore struct {
	Completeness int
	Correctness  int
	Quality      int
}

// Total returns the task points.
func (t TaskScore) Total() int { return t.Completeness + t.Correctness + t.Quality }

// SubmissionStatus is the timeliness of a submission.
type SubmissionStatus string

const (
	// SubmissionStatusOnTime is a submission committed at or before the due instant.
	SubmissionStatusOnTime SubmissionStatus = "on_time"
	// SubmissionStatusLate is a submission committed after the due instant or with unknown commit time.
	SubmissionStatusLate SubmissionStatus = "late"
)

// Timeliness is the outcome of the deadline evaluation.
type Timeliness struct {
	Status    SubmissionStatus
	Points    int
	MaxPoints int
	// LastCommit is nil when the commit time is unknown.
	LastCommit *time.Time
}

// TaskResult is the graded result of a single task.
type TaskResult struct {
	TaskID    string
	Label     string
	MaxPoints int
	Score     TaskScore
	Feedback  []string
}

// GradeReport is the full grade of a submission.
type GradeReport struct {
	RunID         string
	GeneratedAt   time.Time
	RepoRoot      string
	RubricID      string
	RubricVersion string
	Title         string
	Deadline      Deadline

	TaskPoints TaskPoints

	// LabPoints are floor adjusted.
	LabPoints  int
	LabMax     int
	Timeliness Timeliness
	Total      int

	Tasks []TaskResult
}
