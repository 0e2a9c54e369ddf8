package vcs

import (
	"context"
	"time"
)

// Repository knows how to get information from the submission version control history.
type Repository interface {
	// LastCommitTime returns the committer time of the most recent commit.
	LastCommitTime(ctx context.Context) (time.Time, error)
}

//go:generate mockery --case underscore --output vcsmock --outpkg vcsmock --name Repository --structname MockRepository
