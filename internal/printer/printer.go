package printer

import "github.com/slok/labgrade/internal/model"

// Printer knows how to print grading information in different formats.
type Printer interface {
	PrintReport(report model.GradeReport) error
	PrintRubric(rubric model.Rubric) error
	// PrintHistory prints grade summaries, tasks are ignored.
	PrintHistory(grades []model.GradeReport) error
}
