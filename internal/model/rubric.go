package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Rubric is the declarative grading table for a lab.
// Scoring logic never branches on task identity, everything task specific lives here.
type Rubric struct {
	ID      string
	Version string
	Title   string

	Points      TaskPoints
	FloorPoints int
	// ZeroEmptySubmission scores every task 0 when none of the files is found.
	ZeroEmptySubmission bool

	Deadline   Deadline
	Submission SubmissionPolicy
	Search     SearchPolicy

	Files []SourceFile
	Tasks []Task
}

// TaskPoints is the per task points split.
type TaskPoints struct {
	Completeness int
	Correctness  int
	Quality      int
}

// Max returns the maximum points a task can get.
func (t TaskPoints) Max() int { return t.Completeness + t.Correctness + t.Quality }

// Deadline is the submission due instant.
type Deadline struct {
	// Due keeps the location it was declared with, use Due.UTC() for the absolute instant.
	Due time.Time
	// Label names the local zone used when rendering the due date (e.g "Riyadh").
	Label string
}

// SubmissionPolicy is the points given depending on submission timeliness.
type SubmissionPolicy struct {
	OnTimePoints int
	LatePoints   int
}

// SearchPolicy configures the fallback file search.
type SearchPolicy struct {
	MaxDepth int
	SkipDirs []string
}

// SourceFile is a logical submission file the detector reads.
type SourceFile struct {
	ID string
	// Name is the exact file name used by the fallback search.
	Name string
	// Candidates are relative paths ordered by likelihood.
	Candidates []string
}

// Task is a gradable unit of the rubric.
type Task struct {
	ID          string
	Label       string
	Signals     []Signal
	Correctness Condition
	Quality     Condition
	Attempt     Condition
}

// Signal is a named boolean fact detected on a submission file.
type Signal struct {
	ID   string
	File string
	// FilePresent signals are true when the file text has been found.
	FilePresent bool
	// Patterns are alternatives, any match makes the signal true.
	Patterns []string
	Pass     string
	Fail     string
}

// Condition is a boolean expression over a SignalSet.
// All signals in All must be true and, if Any is not empty, at least one of Any.
type Condition struct {
	All []string
	Any []string
}

// Eval evaluates the condition against a signal set. Unknown signals are false.
func (c Condition) Eval(s SignalSet) bool {
	for _, id := range c.All {
		if !s[id] {
			return false
		}
	}

	if len(c.Any) == 0 {
		return len(c.All) > 0
	}

	for _, id := range c.Any {
		if s[id] {
			return true
		}
	}

	return false
}

// String returns the condition in a human readable form (e.g "a AND (b OR c)").
func (c Condition) String() string {
	parts := append([]string{}, c.All...)
	switch len(c.Any) {
	case 0:
	case 1:
		parts = append(parts, c.Any[0])
	default:
		parts = append(parts, "("+strings.Join(c.Any, " OR ")+")")
	}
	return strings.Join(parts, " AND ")
}

func (c Condition) signalIDs() []string {
	return append(append([]string{}, c.All...), c.Any...)
}

// Validate validates the rubric.
func (r *Rubric) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if r.Points.Completeness <= 0 || r.Points.Correctness <= 0 || r.Points.Quality <= 0 {
		return fmt.Errorf("points must be positive: %w", ErrNotValid)
	}
	if r.FloorPoints < 0 {
		return fmt.Errorf("floor points can't be negative: %w", ErrNotValid)
	}
	if r.Deadline.Due.IsZero() {
		return fmt.Errorf("deadline due is required: %w", ErrNotValid)
	}
	if r.Submission.LatePoints < 0 || r.Submission.OnTimePoints < r.Submission.LatePoints {
		return fmt.Errorf("submission points must satisfy 0 <= late <= on time: %w", ErrNotValid)
	}
	if r.Search.MaxDepth < 0 {
		return fmt.Errorf("search max depth can't be negative: %w", ErrNotValid)
	}
	if len(r.Tasks) == 0 {
		return fmt.Errorf("at least one task is required: %w", ErrNotValid)
	}

	files := map[string]bool{}
	for _, f := range r.Files {
		if f.ID == "" || f.Name == "" {
			return fmt.Errorf("file id and name are required: %w", ErrNotValid)
		}
		if files[f.ID] {
			return fmt.Errorf("file %q is duplicated: %w", f.ID, ErrNotValid)
		}
		files[f.ID] = true
	}

	taskIDs := map[string]bool{}
	for _, t := range r.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task id is required: %w", ErrNotValid)
		}
		if taskIDs[t.ID] {
			return fmt.Errorf("task %q is duplicated: %w", t.ID, ErrNotValid)
		}
		taskIDs[t.ID] = true

		if err := t.validate(files); err != nil {
			return fmt.Errorf("task %q: %w", t.ID, err)
		}
	}

	return nil
}

func (t Task) validate(files map[string]bool) error {
	if len(t.Signals) == 0 {
		return fmt.Errorf("at least one signal is required: %w", ErrNotValid)
	}

	signals := map[string]bool{}
	for _, s := range t.Signals {
		if s.ID == "" {
			return fmt.Errorf("signal id is required: %w", ErrNotValid)
		}
		if signals[s.ID] {
			return fmt.Errorf("signal %q is duplicated: %w", s.ID, ErrNotValid)
		}
		signals[s.ID] = true

		if !files[s.File] {
			return fmt.Errorf("signal %q references unknown file %q: %w", s.ID, s.File, ErrNotValid)
		}
		if s.FilePresent == (len(s.Patterns) > 0) {
			return fmt.Errorf("signal %q needs either file_present or patterns: %w", s.ID, ErrNotValid)
		}
		for _, p := range s.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("signal %q pattern %q: %w: %w", s.ID, p, err, ErrNotValid)
			}
		}
	}

	conds := map[string]Condition{
		"correctness": t.Correctness,
		"quality":     t.Quality,
		"attempt":     t.Attempt,
	}
	for name, c := range conds {
		if len(c.All) == 0 && len(c.Any) == 0 {
			return fmt.Errorf("%s condition is empty: %w", name, ErrNotValid)
		}
		for _, id := range c.signalIDs() {
			if !signals[id] {
				return fmt.Errorf("%s condition references unknown signal %q: %w", name, id, ErrNotValid)
			}
		}
	}

	return nil
}
