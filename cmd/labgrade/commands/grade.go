package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/labgrade/internal/app/grade"
	"github.com/slok/labgrade/internal/artifact"
	"github.com/slok/labgrade/internal/conventions"
	"github.com/slok/labgrade/internal/printer"
	"github.com/slok/labgrade/internal/storage"
	"github.com/slok/labgrade/internal/vcs/git"
)

type GradeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	outDir      string
	summaryFile string
	gitBinary   string
	pretty      bool
	prettyStyle string
}

// NewGradeCommand returns the grade command.
func NewGradeCommand(rootCmd *RootCommand, app *kingpin.Application) *GradeCommand {
	c := &GradeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("grade", "Grade the submission and write the reports.").Default()
	c.Cmd.Flag("out-dir", "Reports directory, relative to the submission root (default dist/grading).").StringVar(&c.outDir)
	c.Cmd.Flag("summary-file", "File the narrative report is appended to.").Envar(conventions.SummaryEnvVar).StringVar(&c.summaryFile)
	c.Cmd.Flag("git-binary", "Git binary used to get the last commit time.").Default("git").StringVar(&c.gitBinary)
	c.Cmd.Flag("pretty", "Render the narrative report for the terminal.").BoolVar(&c.pretty)
	c.Cmd.Flag("pretty-style", "Terminal rendering style (auto, dark, light, notty...).").Default(printer.StyleAuto).StringVar(&c.prettyStyle)

	return c
}

func (c GradeCommand) Name() string { return c.Cmd.FullCommand() }

// Run grades the submission. Once the rubric is loaded the grade is always printed and
// artifact failures are only logged.
func (c GradeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	r, err := c.rootCmd.LoadRubric(ctx)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(expandHome(c.rootCmd.Root))
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	repo, err := git.NewRepository(git.RepositoryConfig{
		Dir:    root,
		Binary: c.gitBinary,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create git repository: %w", err)
	}

	var history storage.GradeRepository
	if !c.rootCmd.NoHistory {
		h, err := c.rootCmd.OpenHistory(ctx)
		if err != nil {
			logger.Warningf("Grade history disabled: %s", err)
		} else {
			defer h.Close()
			history = h
		}
	}

	svc, err := grade.NewService(grade.ServiceConfig{
		Rubric:   r,
		FS:       os.DirFS(root),
		RepoRoot: root,
		VCS:      repo,
		History:  history,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	report, err := svc.Grade(ctx)
	if err != nil {
		return fmt.Errorf("could not grade submission: %w", err)
	}

	// Write artifacts.
	w, err := artifact.NewWriter(artifact.WriterConfig{
		OutDir:      conventions.ResolveOutDir(root, expandHome(c.outDir)),
		SummaryFile: expandHome(c.summaryFile),
		Logger:      logger,
	})
	if err != nil {
		logger.Errorf("Could not create artifact writer: %s", err)
	} else if err := w.Write(ctx, *report); err != nil {
		logger.Errorf("Reports not fully written: %s", err)
	}

	// Echo the narrative.
	var p printer.Printer = printer.NewMarkdownPrinter(c.rootCmd.Stdout)
	if c.pretty {
		tp, err := printer.NewTerminalPrinter(c.rootCmd.Stdout, c.prettyStyle)
		if err != nil {
			logger.Warningf("Falling back to plain markdown: %s", err)
		} else {
			p = tp
		}
	}
	if err := p.PrintReport(*report); err != nil {
		logger.Errorf("Could not print report: %s", err)
	}

	return nil
}
