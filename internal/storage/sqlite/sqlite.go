package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/storage"
	"github.com/slok/labgrade/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.GradeRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

var _ storage.GradeRepository = &Repository{}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveGrade stores a grade report with its tasks.
func (r *Repository) SaveGrade(ctx context.Context, g model.GradeReport) error {
	if g.RunID == "" {
		return fmt.Errorf("run id is required: %w", model.ErrNotValid)
	}

	var lastCommitAt *int64
	if g.Timeliness.LastCommit != nil {
		u := g.Timeliness.LastCommit.Unix()
		lastCommitAt = &u
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	query := `
		INSERT INTO grades (
			run_id, generated_at, repo_root,
			rubric_id, rubric_version, title,
			due, due_label,
			completeness_max, correctness_max, quality_max,
			lab_points, lab_max,
			submission_status, submission_points, submission_max,
			last_commit_at, total
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(
		ctx,
		query,
		g.RunID,
		g.GeneratedAt.UnixMilli(),
		g.RepoRoot,
		g.RubricID,
		g.RubricVersion,
		g.Title,
		g.Deadline.Due.Format(time.RFC3339),
		g.Deadline.Label,
		g.TaskPoints.Completeness,
		g.TaskPoints.Correctness,
		g.TaskPoints.Quality,
		g.LabPoints,
		g.LabMax,
		g.Timeliness.Status,
		g.Timeliness.Points,
		g.Timeliness.MaxPoints,
		lastCommitAt,
		g.Total,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: grades.") {
			return fmt.Errorf("grade already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert grade: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO grade_tasks (run_id, position, task_id, label, max_points, completeness, correctness, quality, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range g.Tasks {
		_, err := stmt.ExecContext(ctx, g.RunID, i, t.TaskID, t.Label, t.MaxPoints,
			t.Score.Completeness, t.Score.Correctness, t.Score.Quality,
			strings.Join(t.Feedback, "\n"),
		)
		if err != nil {
			return fmt.Errorf("could not insert grade task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Saved grade in repository: %s", g.RunID)
	return nil
}

const selectGrade = `
	SELECT
		run_id, generated_at, repo_root,
		rubric_id, rubric_version, title,
		due, due_label,
		completeness_max, correctness_max, quality_max,
		lab_points, lab_max,
		submission_status, submission_points, submission_max,
		last_commit_at, total
	FROM grades
`

// GetGrade retrieves a grade by run ID.
func (r *Repository) GetGrade(ctx context.Context, runID string) (*model.GradeReport, error) {
	g, err := r.scanRow(r.db.QueryRowContext(ctx, selectGrade+` WHERE run_id = ?`, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grade %s: %w", runID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query grade: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT task_id, label, max_points, completeness, correctness, quality, feedback
		FROM grade_tasks
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("could not query grade tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.TaskResult
		var feedback string
		err := rows.Scan(&t.TaskID, &t.Label, &t.MaxPoints, &t.Score.Completeness, &t.Score.Correctness, &t.Score.Quality, &feedback)
		if err != nil {
			return nil, fmt.Errorf("could not scan grade task: %w", err)
		}
		if feedback != "" {
			t.Feedback = strings.Split(feedback, "\n")
		}
		g.Tasks = append(g.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &g, nil
}

// ListGrades returns the grades, latest first.
func (r *Repository) ListGrades(ctx context.Context, opts storage.ListGradesOpts) ([]model.GradeReport, error) {
	query := selectGrade
	var args []any
	if opts.RepoRoot != "" {
		query += ` WHERE repo_root = ?`
		args = append(args, opts.RepoRoot)
	}
	query += ` ORDER BY generated_at DESC, run_id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query grades: %w", err)
	}
	defer rows.Close()

	var grades []model.GradeReport
	for rows.Next() {
		g, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		grades = append(grades, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return grades, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRow(s scanner) (model.GradeReport, error) {
	var g model.GradeReport
	var generatedAt int64
	var due string
	var lastCommitAt sql.NullInt64

	err := s.Scan(
		&g.RunID,
		&generatedAt,
		&g.RepoRoot,
		&g.RubricID,
		&g.RubricVersion,
		&g.Title,
		&due,
		&g.Deadline.Label,
		&g.TaskPoints.Completeness,
		&g.TaskPoints.Correctness,
		&g.TaskPoints.Quality,
		&g.LabPoints,
		&g.LabMax,
		&g.Timeliness.Status,
		&g.Timeliness.Points,
		&g.Timeliness.MaxPoints,
		&lastCommitAt,
		&g.Total,
	)
	if err != nil {
		return model.GradeReport{}, err
	}

	g.GeneratedAt = time.UnixMilli(generatedAt).UTC()
	g.Deadline.Due, err = time.Parse(time.RFC3339, due)
	if err != nil {
		return model.GradeReport{}, fmt.Errorf("invalid due %q: %w", due, err)
	}
	if lastCommitAt.Valid {
		t := time.Unix(lastCommitAt.Int64, 0).UTC()
		g.Timeliness.LastCommit = &t
	}

	return g, nil
}
