package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/labgrade/internal/model"
)

// RubricYAMLRepository loads grading rubrics from YAML files.
type RubricYAMLRepository struct {
	fs fs.FS
}

// NewRubricYAMLRepository creates a new YAML rubric repository.
func NewRubricYAMLRepository(filesystem fs.FS) *RubricYAMLRepository {
	return &RubricYAMLRepository{fs: filesystem}
}

// GetRubric loads a rubric from a YAML file and returns a validated domain model.
func (r *RubricYAMLRepository) GetRubric(ctx context.Context, path string) (model.Rubric, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Rubric{}, fmt.Errorf("reading rubric file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Rubric{}, ctx.Err()
	}

	var rb Rubric
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return model.Rubric{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m, err := rb.toModel()
	if err != nil {
		return model.Rubric{}, fmt.Errorf("invalid rubric: %w", err)
	}

	if err := m.Validate(); err != nil {
		return model.Rubric{}, fmt.Errorf("invalid rubric: %w", err)
	}

	return m, nil
}

// Rubric represents the YAML structure of a rubric.
type Rubric struct {
	ID                  string           `yaml:"id"`
	Version             string           `yaml:"version"`
	Title               string           `yaml:"title"`
	Points              PointsConfig     `yaml:"points"`
	FloorPoints         int              `yaml:"floor_points"`
	ZeroEmptySubmission bool             `yaml:"zero_empty_submission"`
	Deadline            DeadlineConfig   `yaml:"deadline"`
	Submission          SubmissionConfig `yaml:"submission"`
	Search              SearchConfig     `yaml:"search"`
	Files               []FileConfig     `yaml:"files"`
	Tasks               []TaskConfig     `yaml:"tasks"`
}

// PointsConfig represents the YAML structure of the per task points split.
type PointsConfig struct {
	Completeness int `yaml:"completeness"`
	Correctness  int `yaml:"correctness"`
	Quality      int `yaml:"quality"`
}

// DeadlineConfig represents the YAML structure of the deadline.
type DeadlineConfig struct {
	// Due is an RFC 3339 timestamp, its offset is used to render the local due date.
	Due   string `yaml:"due"`
	Label string `yaml:"label"`
}

// SubmissionConfig represents the YAML structure of the submission policy.
type SubmissionConfig struct {
	OnTimePoints int `yaml:"on_time_points"`
	LatePoints   int `yaml:"late_points"`
}

// SearchConfig represents the YAML structure of the fallback file search.
type SearchConfig struct {
	MaxDepth int      `yaml:"max_depth"`
	SkipDirs []string `yaml:"skip_dirs"`
}

// FileConfig represents the YAML structure of a submission source file.
type FileConfig struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Candidates []string `yaml:"candidates"`
}

// TaskConfig represents the YAML structure of a task.
type TaskConfig struct {
	ID          string          `yaml:"id"`
	Label       string          `yaml:"label"`
	Signals     []SignalConfig  `yaml:"signals"`
	Correctness ConditionConfig `yaml:"correctness"`
	Quality     ConditionConfig `yaml:"quality"`
	Attempt     ConditionConfig `yaml:"attempt"`
}

// SignalConfig represents the YAML structure of a signal.
type SignalConfig struct {
	ID          string   `yaml:"id"`
	File        string   `yaml:"file"`
	FilePresent bool     `yaml:"file_present"`
	Patterns    []string `yaml:"patterns"`
	Pass        string   `yaml:"pass"`
	Fail        string   `yaml:"fail"`
}

// ConditionConfig represents the YAML structure of a signal condition.
type ConditionConfig struct {
	All []string `yaml:"all"`
	Any []string `yaml:"any"`
}

func (c ConditionConfig) toModel() model.Condition {
	return model.Condition{All: c.All, Any: c.Any}
}

func (r Rubric) toModel() (model.Rubric, error) {
	if r.Deadline.Due == "" {
		return model.Rubric{}, fmt.Errorf("deadline due is required: %w", model.ErrNotValid)
	}
	due, err := time.Parse(time.RFC3339, r.Deadline.Due)
	if err != nil {
		return model.Rubric{}, fmt.Errorf("deadline due must be RFC 3339: %w: %w", err, model.ErrNotValid)
	}

	m := model.Rubric{
		ID:      r.ID,
		Version: r.Version,
		Title:   r.Title,
		Points: model.TaskPoints{
			Completeness: r.Points.Completeness,
			Correctness:  r.Points.Correctness,
			Quality:      r.Points.Quality,
		},
		FloorPoints:         r.FloorPoints,
		ZeroEmptySubmission: r.ZeroEmptySubmission,
		Deadline: model.Deadline{
			Due:   due,
			Label: r.Deadline.Label,
		},
		Submission: model.SubmissionPolicy{
			OnTimePoints: r.Submission.OnTimePoints,
			LatePoints:   r.Submission.LatePoints,
		},
		Search: model.SearchPolicy{
			MaxDepth: r.Search.MaxDepth,
			SkipDirs: r.Search.SkipDirs,
		},
	}

	for _, f := range r.Files {
		m.Files = append(m.Files, model.SourceFile{
			ID:         f.ID,
			Name:       f.Name,
			Candidates: f.Candidates,
		})
	}

	for _, t := range r.Tasks {
		task := model.Task{
			ID:          t.ID,
			Label:       t.Label,
			Correctness: t.Correctness.toModel(),
			Quality:     t.Quality.toModel(),
			Attempt:     t.Attempt.toModel(),
		}
		for _, s := range t.Signals {
			task.Signals = append(task.Signals, model.Signal{
				ID:          s.ID,
				File:        s.File,
				FilePresent: s.FilePresent,
				Patterns:    s.Patterns,
				Pass:        s.Pass,
				Fail:        s.Fail,
			})
		}
		m.Tasks = append(m.Tasks, task)
	}

	return m, nil
}
