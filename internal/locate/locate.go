// Package locate finds submission files in a directory tree.
//
// A file is looked up first on a list of likely relative paths and, if none of
// them exist, with a depth bounded search. Not finding a file is not an error,
// the caller gets an empty result and grades it as absent.
package locate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"

	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
)

// DefaultMaxReadBytes is the max file size read, bigger files are truncated.
const DefaultMaxReadBytes = 1 << 20

// LocatorConfig is the configuration for the Locator.
type LocatorConfig struct {
	// FS is the submission root.
	FS           fs.FS
	Search       model.SearchPolicy
	MaxReadBytes int64
	Logger       log.Logger
}

func (c *LocatorConfig) defaults() error {
	if c.FS == nil {
		return fmt.Errorf("filesystem is required")
	}

	if c.Search.MaxDepth < 0 {
		return fmt.Errorf("max depth can't be negative")
	}

	if c.MaxReadBytes <= 0 {
		c.MaxReadBytes = DefaultMaxReadBytes
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "locate.Locator"})

	return nil
}

// Locator finds and reads submission files.
type Locator struct {
	fs           fs.FS
	maxDepth     int
	skipDirs     []string
	maxReadBytes int64
	logger       log.Logger
}

// NewLocator returns a new Locator.
func NewLocator(cfg LocatorConfig) (*Locator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Locator{
		fs:           cfg.FS,
		maxDepth:     cfg.Search.MaxDepth,
		skipDirs:     cfg.Search.SkipDirs,
		maxReadBytes: cfg.MaxReadBytes,
		logger:       cfg.Logger,
	}, nil
}

// Find returns the path of the file, relative to the root. The first existing candidate wins,
// otherwise the tree is searched by file name. It returns false if the file can't be found.
func (l *Locator) Find(ctx context.Context, file model.SourceFile) (string, bool) {
	for _, c := range file.Candidates {
		p := path.Clean(c)
		if !fs.ValidPath(p) {
			l.logger.Warningf("Ignoring invalid candidate path %q", c)
			continue
		}

		info, err := fs.Stat(l.fs, p)
		if err == nil && !info.IsDir() {
			return p, true
		}
	}

	return l.search(ctx, file.Name, ".", l.maxDepth)
}

// search looks for the file at dir before descending into its subdirectories.
// Unreadable directories are skipped.
func (l *Locator) search(ctx context.Context, name, dir string, depth int) (string, bool) {
	if depth < 0 || ctx.Err() != nil {
		return "", false
	}

	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		l.logger.Debugf("Skipping unreadable directory %q: %s", dir, err)
		return "", false
	}

	for _, e := range entries {
		if !e.IsDir() && e.Name() == name {
			return path.Join(dir, e.Name()), true
		}
	}

	for _, e := range entries {
		if !e.IsDir() || slices.Contains(l.skipDirs, e.Name()) {
			continue
		}

		if p, ok := l.search(ctx, name, path.Join(dir, e.Name()), depth-1); ok {
			return p, true
		}
	}

	return "", false
}

// Read finds the file and returns its relative path and text. It returns false when
// the file is missing, empty or can't be read.
func (l *Locator) Read(ctx context.Context, file model.SourceFile) (string, string, bool) {
	p, ok := l.Find(ctx, file)
	if !ok {
		l.logger.Infof("File %q not found", file.Name)
		return "", "", false
	}

	f, err := l.fs.Open(p)
	if err != nil {
		l.logger.Warningf("Could not open %q: %s", p, err)
		return p, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, l.maxReadBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		l.logger.Warningf("Could not read %q: %s", p, err)
		return p, "", false
	}

	if len(data) == 0 {
		l.logger.Infof("File %q at %q is empty", file.Name, p)
		return p, "", false
	}

	l.logger.Debugf("File %q found at %q", file.Name, p)
	return p, string(data), true
}
