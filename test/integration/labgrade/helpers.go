package labgrade

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/slok/labgrade/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
	Git    string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "labgrade"
	}

	// go test changes the CWD to the test package directory, relative paths would break.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("LABGRADE_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("labgrade binary not found at %q: %w", c.Binary, err)
	}

	if c.Git == "" {
		c.Git = "git"
	}
	git, err := exec.LookPath(c.Git)
	if err != nil {
		return fmt.Errorf("git binary not found: %w", err)
	}
	c.Git = git

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "LABGRADE_INTEGRATION"
		envBinary     = "LABGRADE_INTEGRATION_BINARY"
		envGit        = "LABGRADE_INTEGRATION_GIT"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
		Git:    os.Getenv(envGit),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// NewSubmission creates a git repository with the files committed at commitDate (RFC 3339).
func NewSubmission(t *testing.T, config Config, files map[string]string, commitDate string) string {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	for name, data := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("could not create dir: %s", err)
		}
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatalf("could not write file: %s", err)
		}
	}

	env := []string{
		"GIT_AUTHOR_NAME=student", "GIT_AUTHOR_EMAIL=student@example.com",
		"GIT_COMMITTER_NAME=student", "GIT_COMMITTER_EMAIL=student@example.com",
		"GIT_AUTHOR_DATE=" + commitDate, "GIT_COMMITTER_DATE=" + commitDate,
	}
	cmds := [][]string{
		{"init", "-q"},
		{"add", "-A"},
		{"commit", "-q", "--allow-empty", "-m", "submission"},
	}
	for _, args := range cmds {
		if _, stderr, err := testutils.Run(ctx, env, dir, config.Git, args, false); err != nil {
			t.Fatalf("git %v failed: %s: %s", args, err, stderr)
		}
	}

	return dir
}

// RunGrade grades a submission root without history nor CI summary.
func RunGrade(ctx context.Context, config Config, root string) (stdout, stderr []byte, err error) {
	args := []string{"--root", root, "--no-history", "grade", "--git-binary", config.Git, "--summary-file", ""}
	return testutils.RunLabgrade(ctx, nil, config.Binary, args, true)
}
