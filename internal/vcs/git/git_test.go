package git_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/vcs/git"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGit writes an executable that behaves like `git log` with the given script body.
func fakeGit(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake git binary needs a POSIX shell")
	}

	p := filepath.Join(t.TempDir(), "git")
	err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	require.NoError(t, err)

	return p
}

func TestRepositoryLastCommitTime(t *testing.T) {
	tests := map[string]struct {
		script  string
		expTime time.Time
		expErr  error
		anyErr  bool
	}{
		"A timezone aware commit time should be parsed.": {
			script:  `echo "2025-11-10T23:59:59+03:00"`,
			expTime: time.Date(2025, 11, 10, 20, 59, 59, 0, time.UTC),
		},

		"A UTC commit time should be parsed.": {
			script:  `echo "2025-11-09T10:00:00Z"`,
			expTime: time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC),
		},

		"A repository without commits should fail with not found.": {
			script: `exit 0`,
			expErr: model.ErrNotFound,
		},

		"A failing git should fail.": {
			script: `echo "fatal: not a git repository" >&2; exit 128`,
			anyErr: true,
		},

		"An invalid time should fail.": {
			script: `echo "yesterday"`,
			anyErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo, err := git.NewRepository(git.RepositoryConfig{
				Dir:    t.TempDir(),
				Binary: fakeGit(t, test.script),
			})
			require.NoError(err)

			got, err := repo.LastCommitTime(context.Background())
			switch {
			case test.expErr != nil:
				assert.ErrorIs(err, test.expErr)
			case test.anyErr:
				assert.Error(err)
			default:
				require.NoError(err)
				assert.True(test.expTime.Equal(got), "got %s", got)
			}
		})
	}
}

func TestRepositoryLastCommitTimeMissingBinary(t *testing.T) {
	repo, err := git.NewRepository(git.RepositoryConfig{
		Dir:    t.TempDir(),
		Binary: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	require.NoError(t, err)

	_, err = repo.LastCommitTime(context.Background())
	assert.Error(t, err)
}

func TestNewRepositoryInvalidConfig(t *testing.T) {
	_, err := git.NewRepository(git.RepositoryConfig{})
	assert.Error(t, err)
}
