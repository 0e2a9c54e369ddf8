package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
)

// RepositoryConfig is the configuration for the git repository.
type RepositoryConfig struct {
	// Dir is the working tree the git commands run on.
	Dir string
	// Binary is the git binary, by default the one in PATH.
	Binary string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}

	if c.Binary == "" {
		c.Binary = "git"
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "vcs.Git"})

	return nil
}

// Repository gets submission history information by running the git CLI.
type Repository struct {
	dir    string
	binary string
	logger log.Logger
}

// NewRepository returns a new git repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		dir:    cfg.Dir,
		binary: cfg.Binary,
		logger: cfg.Logger,
	}, nil
}

// LastCommitTime returns the committer date of HEAD (`git log -1 --format=%cI`).
func (r *Repository) LastCommitTime(ctx context.Context) (time.Time, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, "log", "-1", "--format=%cI")
	cmd.Dir = r.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debugf("Executing: %s log -1 --format=%%cI", r.binary)
	if err := cmd.Run(); err != nil {
		return time.Time{}, fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return time.Time{}, fmt.Errorf("no commits: %w", model.ErrNotFound)
	}

	t, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid commit time %q: %w", out, err)
	}

	return t, nil
}
