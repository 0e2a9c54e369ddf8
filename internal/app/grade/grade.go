package grade

import (
	"context"
	"crypto/rand"
	"fmt"
	"io/fs"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/labgrade/internal/deadline"
	"github.com/slok/labgrade/internal/detect"
	"github.com/slok/labgrade/internal/locate"
	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/report"
	"github.com/slok/labgrade/internal/score"
	"github.com/slok/labgrade/internal/storage"
	"github.com/slok/labgrade/internal/vcs"
)

// ServiceConfig is the configuration for the grade service.
type ServiceConfig struct {
	Rubric model.Rubric
	// FS is the submission root.
	FS fs.FS
	// RepoRoot is the submission root as shown in the report.
	RepoRoot string
	VCS      vcs.Repository
	// History stores the graded reports when set.
	History storage.GradeRepository
	// Now is the clock used for the report generation time, by default time.Now.
	Now    func() time.Time
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if err := c.Rubric.Validate(); err != nil {
		return fmt.Errorf("invalid rubric: %w", err)
	}
	if c.FS == nil {
		return fmt.Errorf("filesystem is required")
	}
	if c.VCS == nil {
		return fmt.Errorf("vcs repository is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Grade"})
	return nil
}

// Service handles the grading of a submission.
type Service struct {
	rubric   model.Rubric
	repoRoot string
	locator  *locate.Locator
	detector *detect.Detector
	vcs      vcs.Repository
	history  storage.GradeRepository
	now      func() time.Time
	logger   log.Logger
}

// NewService creates a new grade service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	locator, err := locate.NewLocator(locate.LocatorConfig{
		FS:     cfg.FS,
		Search: cfg.Rubric.Search,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create locator: %w", err)
	}

	detector, err := detect.NewDetector(cfg.Rubric)
	if err != nil {
		return nil, fmt.Errorf("could not create detector: %w", err)
	}

	return &Service{
		rubric:   cfg.Rubric,
		repoRoot: cfg.RepoRoot,
		locator:  locator,
		detector: detector,
		vcs:      cfg.VCS,
		history:  cfg.History,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}, nil
}

// Grade grades the submission. Missing files and an unknown commit time are part of the
// grade, not errors.
func (s *Service) Grade(ctx context.Context) (*model.GradeReport, error) {
	runID := ulid.MustNew(ulid.Timestamp(s.now()), rand.Reader).String()
	ctx = s.logger.SetValuesOnCtx(ctx, log.Kv{"run-id": runID})
	logger := s.logger.WithCtxValues(ctx)

	// 1. Locate and read the submission files.
	sources := make(map[string]detect.Source, len(s.rubric.Files))
	anyFound := false
	for _, f := range s.rubric.Files {
		p, text, ok := s.locator.Read(ctx, f)
		if !ok {
			logger.Warningf("Submission file %q not found", f.Name)
		}
		anyFound = anyFound || ok
		sources[f.ID] = detect.Source{Path: p, Text: text, Found: ok}
	}
	emptySubmission := s.rubric.ZeroEmptySubmission && !anyFound
	if emptySubmission {
		logger.Warningf("No submission file found, every task scores 0")
	}

	// 2. Detect and score every task.
	tasks := make([]model.TaskResult, 0, len(s.rubric.Tasks))
	detections := make([]model.SignalSet, 0, len(s.rubric.Tasks))
	subtotal := 0
	for _, t := range s.rubric.Tasks {
		det, err := s.detector.Detect(t.ID, sources)
		if err != nil {
			return nil, fmt.Errorf("could not detect task signals: %w", err)
		}
		detections = append(detections, det.Signals)

		ts := score.Task(s.rubric.Points, t, det.Signals, emptySubmission)
		subtotal += ts.Total()
		tasks = append(tasks, model.TaskResult{
			TaskID:    t.ID,
			Label:     t.Label,
			MaxPoints: s.rubric.Points.Max(),
			Score:     ts,
			Feedback:  det.Feedback,
		})
		logger.Debugf("Task %s: %d/%d", t.ID, ts.Total(), s.rubric.Points.Max())
	}

	// 3. Floor policy.
	attempted := score.Attempted(s.rubric.Tasks, detections)
	labPoints := score.Floor(subtotal, s.rubric.FloorPoints, attempted)
	if labPoints != subtotal {
		logger.Infof("Attempt floor applied: %d -> %d", subtotal, labPoints)
	}

	// 4. Submission timeliness.
	var lastCommit *time.Time
	lc, err := s.vcs.LastCommitTime(ctx)
	if err != nil {
		logger.Warningf("Last commit time unknown: %s", err)
	} else {
		lastCommit = &lc
	}
	timeliness := deadline.Evaluate(s.rubric.Deadline, s.rubric.Submission, lastCommit)

	r := report.Build(report.Input{
		RunID:       runID,
		GeneratedAt: s.now(),
		RepoRoot:    s.repoRoot,
		Rubric:      s.rubric,
		Tasks:       tasks,
		LabPoints:   labPoints,
		Timeliness:  timeliness,
	})
	logger.Infof("Graded submission: %d/%d", r.Total, r.LabMax+timeliness.MaxPoints)

	// Saving history is best effort.
	if s.history != nil {
		if err := s.history.SaveGrade(ctx, r); err != nil {
			logger.Errorf("Could not save grade history: %s", err)
		}
	}

	return &r, nil
}
