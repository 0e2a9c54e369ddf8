package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/slok/labgrade/internal/deadline"
	"github.com/slok/labgrade/internal/model"
)

const defaultTitle = "Lab Grade Summary"

// MarkdownPrinter prints grading information as a Markdown narrative.
type MarkdownPrinter struct {
	writer io.Writer
}

// NewMarkdownPrinter creates a new Markdown printer.
func NewMarkdownPrinter(w io.Writer) *MarkdownPrinter {
	return &MarkdownPrinter{writer: w}
}

// PrintReport prints the grade report narrative: totals header first, then a section per task.
func (m *MarkdownPrinter) PrintReport(r model.GradeReport) error {
	title := r.Title
	if title == "" {
		title = defaultTitle
	}

	due := "Due"
	if r.Deadline.Label != "" {
		due = fmt.Sprintf("Due (%s)", r.Deadline.Label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	fmt.Fprintf(&b, "**Total:** %d/%d\n", r.Total, r.LabMax+r.Timeliness.MaxPoints)
	fmt.Fprintf(&b, "- Lab: **%d/%d**\n", r.LabPoints, r.LabMax)
	fmt.Fprintf(&b, "- Submission: **%d/%d** — %s\n", r.Timeliness.Points, r.Timeliness.MaxPoints, deadline.StatusText(r.Timeliness))
	fmt.Fprintf(&b, "- %s: %s\n", due, FormatDue(r.Deadline))
	fmt.Fprintf(&b, "- Last commit: %s\n", FormatLastCommit(r.Timeliness.LastCommit))
	fmt.Fprintf(&b, "\n## Per-TODO Feedback (what you implemented vs. what’s missing)\n")

	p := r.TaskPoints
	for _, t := range r.Tasks {
		fmt.Fprintf(&b, "### %s — **%d/%d**\n", t.Label, t.Score.Total(), t.MaxPoints)
		fmt.Fprintf(&b, "*Completeness:* %d/%d, *Correctness:* %d/%d, *Quality:* %d/%d\n\n",
			t.Score.Completeness, p.Completeness,
			t.Score.Correctness, p.Correctness,
			t.Score.Quality, p.Quality,
		)
		for _, f := range t.Feedback {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		fmt.Fprintln(&b)
	}

	_, err := io.WriteString(m.writer, b.String())
	return err
}

// PrintRubric prints the rubric as a Markdown table.
func (m *MarkdownPrinter) PrintRubric(r model.Rubric) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Rubric %s (%s)\n\n", r.ID, r.Version)
	fmt.Fprintf(&b, "- Due (%s): %s\n", r.Deadline.Label, FormatDue(r.Deadline))
	fmt.Fprintf(&b, "- Points per task: %d completeness, %d correctness, %d quality\n", r.Points.Completeness, r.Points.Correctness, r.Points.Quality)
	fmt.Fprintf(&b, "- Floor: %d\n\n", r.FloorPoints)
	fmt.Fprintln(&b, "| Task | Signals | Correctness | Quality | Attempt |")
	fmt.Fprintln(&b, "|---|---|---|---|---|")
	for _, t := range r.Tasks {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n", t.Label, len(t.Signals), t.Correctness, t.Quality, t.Attempt)
	}

	_, err := io.WriteString(m.writer, b.String())
	return err
}

// PrintHistory prints the grade summaries as a Markdown table.
func (m *MarkdownPrinter) PrintHistory(grades []model.GradeReport) error {
	var b strings.Builder
	fmt.Fprintln(&b, "# Grade History")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Run | Generated | Lab | Submission | Total |")
	fmt.Fprintln(&b, "|---|---|---|---|---|")
	for _, g := range grades {
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %s | **%d** |\n",
			g.RunID, FormatISO(g.GeneratedAt), g.LabPoints, g.LabMax, deadline.StatusText(g.Timeliness), g.Total)
	}

	_, err := io.WriteString(m.writer, b.String())
	return err
}
