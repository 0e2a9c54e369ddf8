package history

import (
	"context"
	"fmt"

	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.GradeRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.History"})

	return nil
}

// Service queries previous grades.
type Service struct {
	repo   storage.GradeRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// RepoRoot is an optional filter to only show grades of this submission root.
	RepoRoot string
	// Limit is the max number of grades, 0 means all.
	Limit int
}

// Run lists the previous grades, latest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.GradeReport, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	grades, err := s.repo.ListGrades(ctx, storage.ListGradesOpts{
		RepoRoot: req.RepoRoot,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list grades: %w", err)
	}

	s.logger.Debugf("found %d grades", len(grades))
	return grades, nil
}

// Get returns a previous grade with its per task feedback.
func (s *Service) Get(ctx context.Context, runID string) (*model.GradeReport, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id is required: %w", model.ErrNotValid)
	}

	g, err := s.repo.GetGrade(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("could not get grade: %w", err)
	}

	return g, nil
}
