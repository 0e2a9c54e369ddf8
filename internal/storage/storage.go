package storage

import (
	"context"

	"github.com/slok/labgrade/internal/model"
)

// GradeRepository is the interface for grade history persistence.
type GradeRepository interface {
	SaveGrade(ctx context.Context, r model.GradeReport) error
	// GetGrade returns the full report of a run, tasks included.
	GetGrade(ctx context.Context, runID string) (*model.GradeReport, error)
	// ListGrades returns the latest reports first, without their tasks.
	ListGrades(ctx context.Context, opts ListGradesOpts) ([]model.GradeReport, error)
}

// ListGradesOpts are the options to list grades.
type ListGradesOpts struct {
	// RepoRoot filters by submission root when set.
	RepoRoot string
	// Limit is the max number of grades returned, 0 means no limit.
	Limit int
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name GradeRepository --structname MockGradeRepository
