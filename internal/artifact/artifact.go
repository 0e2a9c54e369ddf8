// Package artifact writes the grade report files of a run.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/labgrade/internal/conventions"
	"github.com/slok/labgrade/internal/log"
	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/printer"
)

// WriterConfig is the configuration for the artifact writer.
type WriterConfig struct {
	// OutDir is where grade.json and grade.md are written, created when missing.
	OutDir string
	// SummaryFile is an optional file the narrative is appended to.
	SummaryFile string
	Logger      log.Logger
}

func (c *WriterConfig) defaults() error {
	if c.OutDir == "" {
		return fmt.Errorf("out dir is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "artifact.Writer"})

	return nil
}

// Writer writes the structured and narrative reports.
type Writer struct {
	outDir      string
	summaryFile string
	logger      log.Logger
}

// NewWriter returns a new artifact writer.
func NewWriter(cfg WriterConfig) (*Writer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Writer{
		outDir:      cfg.OutDir,
		summaryFile: cfg.SummaryFile,
		logger:      cfg.Logger,
	}, nil
}

// Write writes every artifact, overwriting previous runs. A failed artifact doesn't stop
// the others, all failures are returned joined.
func (w *Writer) Write(ctx context.Context, r model.GradeReport) error {
	var jsonData, mdData bytes.Buffer
	if err := printer.NewJSONPrinter(&jsonData).PrintReport(r); err != nil {
		return fmt.Errorf("could not render json report: %w", err)
	}
	if err := printer.NewMarkdownPrinter(&mdData).PrintReport(r); err != nil {
		return fmt.Errorf("could not render markdown report: %w", err)
	}

	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		err = fmt.Errorf("could not create output directory: %w", err)
		w.logger.Errorf("%s", err)
		return errors.Join(err, w.appendSummary(ctx, mdData.Bytes()))
	}

	var errs []error
	files := []struct {
		name string
		data []byte
	}{
		{name: conventions.GradeJSONFile, data: jsonData.Bytes()},
		{name: conventions.GradeMarkdownFile, data: mdData.Bytes()},
	}
	for _, f := range files {
		p := filepath.Join(w.outDir, f.name)
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			err = fmt.Errorf("could not write %s: %w", p, err)
			w.logger.Errorf("%s", err)
			errs = append(errs, err)
			continue
		}
		w.logger.Debugf("Artifact written: %s", p)
	}

	errs = append(errs, w.appendSummary(ctx, mdData.Bytes()))

	return errors.Join(errs...)
}

func (w *Writer) appendSummary(ctx context.Context, data []byte) error {
	if w.summaryFile == "" {
		return nil
	}
	logger := w.logger.WithCtxValues(ctx).WithValues(log.Kv{"summary-file": w.summaryFile})

	f, err := os.OpenFile(w.summaryFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		err = fmt.Errorf("could not open summary file: %w", err)
		logger.Errorf("%s", err)
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		err = fmt.Errorf("could not append summary: %w", err)
		logger.Errorf("%s", err)
		return err
	}
	logger.Debugf("Summary appended")

	return nil
}
