package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/labgrade/internal/deadline"
	"github.com/slok/labgrade/internal/model"
)

// JSONPrinter prints grading information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// gradeOutput is the structured grade report, field names are stable.
type gradeOutput struct {
	Metadata metadataOutput `json:"metadata"`
	Scoring  scoringOutput  `json:"scoring"`
	Details  []detailOutput `json:"details"`
}

type metadataOutput struct {
	RunID         string `json:"runId"`
	GeneratedAt   string `json:"generatedAt"`
	RepoRoot      string `json:"repoRoot"`
	RubricID      string `json:"rubricId"`
	RubricVersion string `json:"rubricVersion"`
	DueUTC        string `json:"dueUTC"`
	LastCommitISO string `json:"lastCommitISO"`
}

type scoringOutput struct {
	LabPoints        int    `json:"labPoints"`
	LabMax           int    `json:"labMax"`
	SubmissionPoints int    `json:"submissionPoints"`
	SubmissionMax    int    `json:"submissionMax"`
	SubmissionStatus string `json:"submissionStatus"`
	Total            int    `json:"total"`
}

type detailOutput struct {
	Todo      string          `json:"todo"`
	Points    int             `json:"points"`
	Max       int             `json:"max"`
	Breakdown breakdownOutput `json:"breakdown"`
	Feedback  []string        `json:"feedback"`
}

type breakdownOutput struct {
	Completeness int `json:"completeness"`
	Correctness  int `json:"correctness"`
	Quality      int `json:"quality"`
}

type historyOutput struct {
	RunID            string `json:"runId"`
	GeneratedAt      string `json:"generatedAt"`
	RepoRoot         string `json:"repoRoot"`
	RubricID         string `json:"rubricId"`
	LastCommitISO    string `json:"lastCommitISO"`
	LabPoints        int    `json:"labPoints"`
	SubmissionPoints int    `json:"submissionPoints"`
	SubmissionStatus string `json:"submissionStatus"`
	Total            int    `json:"total"`
}

type rubricOutput struct {
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	DueUTC      string       `json:"dueUTC"`
	FloorPoints int          `json:"floorPoints"`
	Tasks       []taskOutput `json:"tasks"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Signals     []string `json:"signals"`
	Correctness string   `json:"correctness"`
	Quality     string   `json:"quality"`
	Attempt     string   `json:"attempt"`
}

// PrintReport prints the grade report in JSON format.
func (j *JSONPrinter) PrintReport(r model.GradeReport) error {
	output := gradeOutput{
		Metadata: metadataOutput{
			RunID:         r.RunID,
			GeneratedAt:   FormatISOMillis(r.GeneratedAt),
			RepoRoot:      r.RepoRoot,
			RubricID:      r.RubricID,
			RubricVersion: r.RubricVersion,
			DueUTC:        FormatISO(r.Deadline.Due),
			LastCommitISO: FormatLastCommit(r.Timeliness.LastCommit),
		},
		Scoring: scoringOutput{
			LabPoints:        r.LabPoints,
			LabMax:           r.LabMax,
			SubmissionPoints: r.Timeliness.Points,
			SubmissionMax:    r.Timeliness.MaxPoints,
			SubmissionStatus: deadline.StatusText(r.Timeliness),
			Total:            r.Total,
		},
		Details: make([]detailOutput, 0, len(r.Tasks)),
	}

	for _, t := range r.Tasks {
		output.Details = append(output.Details, detailOutput{
			Todo:   t.Label,
			Points: t.Score.Total(),
			Max:    t.MaxPoints,
			Breakdown: breakdownOutput{
				Completeness: t.Score.Completeness,
				Correctness:  t.Score.Correctness,
				Quality:      t.Score.Quality,
			},
			Feedback: t.Feedback,
		})
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintRubric prints the rubric tasks in JSON format.
func (j *JSONPrinter) PrintRubric(r model.Rubric) error {
	output := rubricOutput{
		ID:          r.ID,
		Version:     r.Version,
		DueUTC:      FormatISO(r.Deadline.Due),
		FloorPoints: r.FloorPoints,
		Tasks:       make([]taskOutput, 0, len(r.Tasks)),
	}

	for _, t := range r.Tasks {
		signals := make([]string, 0, len(t.Signals))
		for _, s := range t.Signals {
			signals = append(signals, s.ID)
		}

		output.Tasks = append(output.Tasks, taskOutput{
			ID:          t.ID,
			Label:       t.Label,
			Signals:     signals,
			Correctness: t.Correctness.String(),
			Quality:     t.Quality.String(),
			Attempt:     t.Attempt.String(),
		})
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintHistory prints the grade summaries in JSON format.
func (j *JSONPrinter) PrintHistory(grades []model.GradeReport) error {
	output := make([]historyOutput, 0, len(grades))
	for _, g := range grades {
		output = append(output, historyOutput{
			RunID:            g.RunID,
			GeneratedAt:      FormatISOMillis(g.GeneratedAt),
			RepoRoot:         g.RepoRoot,
			RubricID:         g.RubricID,
			LastCommitISO:    FormatLastCommit(g.Timeliness.LastCommit),
			LabPoints:        g.LabPoints,
			SubmissionPoints: g.Timeliness.Points,
			SubmissionStatus: deadline.StatusText(g.Timeliness),
			Total:            g.Total,
		})
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
