// Package report assembles the grade report of a submission.
package report

import (
	"time"

	"github.com/slok/labgrade/internal/model"
)

// Input is everything the report is built from.
type Input struct {
	RunID       string
	GeneratedAt time.Time
	RepoRoot    string
	Rubric      model.Rubric
	Tasks       []model.TaskResult
	// LabPoints are the floor adjusted lab points.
	LabPoints  int
	Timeliness model.Timeliness
}

// Build returns the grade report. The grand total is the lab points plus the submission points.
func Build(in Input) model.GradeReport {
	tasks := make([]model.TaskResult, len(in.Tasks))
	copy(tasks, in.Tasks)

	return model.GradeReport{
		RunID:         in.RunID,
		GeneratedAt:   in.GeneratedAt.UTC(),
		RepoRoot:      in.RepoRoot,
		RubricID:      in.Rubric.ID,
		RubricVersion: in.Rubric.Version,
		Title:         in.Rubric.Title,
		Deadline:      in.Rubric.Deadline,
		TaskPoints:    in.Rubric.Points,
		LabPoints:     in.LabPoints,
		LabMax:        len(in.Rubric.Tasks) * in.Rubric.Points.Max(),
		Timeliness:    in.Timeliness,
		Total:         in.LabPoints + in.Timeliness.Points,
		Tasks:         tasks,
	}
}
