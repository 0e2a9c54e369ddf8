package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/labgrade/internal/deadline"
	"github.com/slok/labgrade/internal/model"
)

// TablePrinter prints grading information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintReport prints the per task points and the totals.
func (t *TablePrinter) PrintReport(r model.GradeReport) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Print header.
	fmt.Fprintln(tw, "TASK\tPOINTS\tCOMPLETENESS\tCORRECTNESS\tQUALITY")

	// Print rows.
	for _, task := range r.Tasks {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%d\n",
			task.TaskID,
			task.Score.Total(), task.MaxPoints,
			task.Score.Completeness,
			task.Score.Correctness,
			task.Score.Quality,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(t.writer, "\nLab:         %d/%d\n", r.LabPoints, r.LabMax)
	fmt.Fprintf(t.writer, "Submission:  %s\n", deadline.StatusText(r.Timeliness))
	fmt.Fprintf(t.writer, "Last commit: %s\n", FormatLastCommit(r.Timeliness.LastCommit))
	fmt.Fprintf(t.writer, "Total:       %d/%d\n", r.Total, r.LabMax+r.Timeliness.MaxPoints)

	return nil
}

// PrintRubric prints the rubric tasks and their gates in a table format.
func (t *TablePrinter) PrintRubric(r model.Rubric) error {
	if len(r.Tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "TASK\tSIGNALS\tCORRECTNESS\tQUALITY\tATTEMPT")

	// Print rows.
	for _, task := range r.Tasks {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", task.ID, len(task.Signals), task.Correctness, task.Quality, task.Attempt)
	}

	return nil
}

// PrintHistory prints the grade summaries in a table format.
func (t *TablePrinter) PrintHistory(grades []model.GradeReport) error {
	if len(grades) == 0 {
		fmt.Fprintln(t.writer, "No grades found.")
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "RUN ID\tGENERATED\tLAB\tSUBMISSION\tTOTAL\tROOT")

	// Print rows.
	for _, g := range grades {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%d\t%s\n",
			g.RunID,
			FormatAge(g.GeneratedAt),
			g.LabPoints, g.LabMax,
			deadline.StatusText(g.Timeliness),
			g.Total,
			g.RepoRoot,
		)
	}

	return nil
}
