package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/printer"
)

var riyadh = time.FixedZone("+03", 3*60*60)

func reportFixture() model.GradeReport {
	lastCommit := time.Date(2025, 11, 9, 10, 0, 0, 0, time.UTC)
	return model.GradeReport{
		RunID:         "01JC3V7Z8K9Q2W4E6R8T0Y2U4I",
		GeneratedAt:   time.Date(2025, 11, 10, 12, 30, 0, 123000000, time.UTC),
		RepoRoot:      "/work/lab",
		RubricID:      "6-2-node-express",
		RubricVersion: "2025.11",
		Title:         "Lab Grade Summary",
		Deadline: model.Deadline{
			Due:   time.Date(2025, 11, 10, 23, 59, 59, 0, riyadh),
			Label: "Riyadh",
		},
		TaskPoints: model.TaskPoints{Completeness: 8, Correctness: 4, Quality: 4},
		LabPoints:  60,
		LabMax:     80,
		Timeliness: model.Timeliness{
			Status:     model.SubmissionStatusOnTime,
			Points:     20,
			MaxPoints:  20,
			LastCommit: &lastCommit,
		},
		Total: 80,
		Tasks: []model.TaskResult{
			{
				TaskID:    "app-init",
				Label:     "TODO 1: Server Setup",
				MaxPoints: 16,
				Score:     model.TaskScore{Completeness: 8, Correctness: 4, Quality: 4},
				Feedback:  []string{"✅ Express imported", "✅ app.listen called"},
			},
			{
				TaskID:    "cors",
				Label:     "TODO 4: CORS",
				MaxPoints: 16,
				Score:     model.TaskScore{Completeness: 4, Correctness: 2, Quality: 2},
				Feedback:  []string{"✅ cors imported", "❌ cors middleware not applied"},
			},
		},
	}
}

func TestMarkdownPrinterPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewMarkdownPrinter(&buf)

	err := p.PrintReport(reportFixture())
	require.NoError(t, err)

	exp := strings.Join([]string{
		"# Lab Grade Summary",
		"**Total:** 80/100",
		"- Lab: **60/80**",
		"- Submission: **20/20** — On time (20/20)",
		"- Due (Riyadh): 2025-11-10 23:59:59 +03:00",
		"- Last commit: 2025-11-09T10:00:00Z",
		"",
		"## Per-TODO Feedback (what you implemented vs. what’s missing)",
		"### TODO 1: Server Setup — **16/16**",
		"*Completeness:* 8/8, *Correctness:* 4/4, *Quality:* 4/4",
		"",
		"- ✅ Express imported",
		"- ✅ app.listen called",
		"",
		"### TODO 4: CORS — **8/16**",
		"*Completeness:* 4/8, *Correctness:* 2/4, *Quality:* 2/4",
		"",
		"- ✅ cors imported",
		"- ❌ cors middleware not applied",
		"",
		"",
	}, "\n")
	assert.Equal(t, exp, buf.String())
}

func TestMarkdownPrinterPrintReportUnknownCommit(t *testing.T) {
	r := reportFixture()
	r.Timeliness = model.Timeliness{Status: model.SubmissionStatusLate, Points: 10, MaxPoints: 20}
	r.Total = 70

	var buf bytes.Buffer
	err := printer.NewMarkdownPrinter(&buf).PrintReport(r)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "**Total:** 70/100")
	assert.Contains(t, out, "- Submission: **10/20** — Late (10/20)")
	assert.Contains(t, out, "- Last commit: unknown")
}

func TestJSONPrinterPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintReport(reportFixture())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	expMetadata := map[string]any{
		"runId":         "01JC3V7Z8K9Q2W4E6R8T0Y2U4I",
		"generatedAt":   "2025-11-10T12:30:00.123Z",
		"repoRoot":      "/work/lab",
		"rubricId":      "6-2-node-express",
		"rubricVersion": "2025.11",
		"dueUTC":        "2025-11-10T20:59:59Z",
		"lastCommitISO": "2025-11-09T10:00:00Z",
	}
	expScoring := map[string]any{
		"labPoints":        float64(60),
		"labMax":           float64(80),
		"submissionPoints": float64(20),
		"submissionMax":    float64(20),
		"submissionStatus": "On time (20/20)",
		"total":            float64(80),
	}
	assert.Equal(t, expMetadata, got["metadata"])
	assert.Equal(t, expScoring, got["scoring"])

	details, ok := got["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, map[string]any{
		"todo":   "TODO 4: CORS",
		"points": float64(8),
		"max":    float64(16),
		"breakdown": map[string]any{
			"completeness": float64(4),
			"correctness":  float64(2),
			"quality":      float64(2),
		},
		"feedback": []any{"✅ cors imported", "❌ cors middleware not applied"},
	}, details[1])
}

func TestTablePrinterPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintReport(reportFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "TASK")
	assert.Contains(t, out, "app-init")
	assert.Contains(t, out, "16/16")
	assert.Contains(t, out, "Lab:         60/80")
	assert.Contains(t, out, "Total:       80/100")
}

func rubricFixture() model.Rubric {
	return model.Rubric{
		ID:          "test",
		Version:     "1",
		FloorPoints: 60,
		Deadline:    model.Deadline{Due: time.Date(2025, 11, 10, 23, 59, 59, 0, riyadh), Label: "Riyadh"},
		Points:      model.TaskPoints{Completeness: 8, Correctness: 4, Quality: 4},
		Tasks: []model.Task{
			{
				ID:          "cors",
				Label:       "CORS",
				Signals:     []model.Signal{{ID: "cors_imported"}, {ID: "cors_used"}},
				Correctness: model.Condition{All: []string{"cors_used"}},
				Quality:     model.Condition{All: []string{"cors_imported", "cors_used"}},
				Attempt:     model.Condition{Any: []string{"cors_used"}},
			},
		},
	}
}

func TestPrintRubric(t *testing.T) {
	tests := map[string]struct {
		printer   func(*bytes.Buffer) printer.Printer
		expOutput []string
	}{
		"Table printer should print the task gates.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewTablePrinter(b) },
			expOutput: []string{"ATTEMPT", "cors", "cors_imported AND cors_used"},
		},

		"JSON printer should print the task gates.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewJSONPrinter(b) },
			expOutput: []string{`"dueUTC": "2025-11-10T20:59:59Z"`, `"quality": "cors_imported AND cors_used"`, `"signals": [`},
		},

		"Markdown printer should print the task gates.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewMarkdownPrinter(b) },
			expOutput: []string{"# Rubric test (1)", "| CORS | 2 | cors_used | cors_imported AND cors_used | cors_used |"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := test.printer(&buf).PrintRubric(rubricFixture())
			require.NoError(t, err)

			for _, exp := range test.expOutput {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}

func TestTerminalPrinterPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p, err := printer.NewTerminalPrinter(&buf, "notty")
	require.NoError(t, err)

	err = p.PrintReport(reportFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Lab Grade Summary")
	assert.Contains(t, out, "TODO 1: Server Setup")
	assert.Contains(t, out, "cors middleware not applied")
}

func TestPrintHistory(t *testing.T) {
	g := reportFixture()
	g.Tasks = nil

	tests := map[string]struct {
		printer   func(*bytes.Buffer) printer.Printer
		grades    []model.GradeReport
		expOutput []string
	}{
		"Table printer should print a row per grade.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewTablePrinter(b) },
			grades:    []model.GradeReport{g},
			expOutput: []string{"RUN ID", "01JC3V7Z8K9Q2W4E6R8T0Y2U4I", "60/80", "On time (20/20)", "/work/lab"},
		},

		"Table printer without grades should say so.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewTablePrinter(b) },
			expOutput: []string{"No grades found."},
		},

		"JSON printer should print a summary per grade.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewJSONPrinter(b) },
			grades:    []model.GradeReport{g},
			expOutput: []string{`"runId": "01JC3V7Z8K9Q2W4E6R8T0Y2U4I"`, `"total": 80`, `"lastCommitISO": "2025-11-09T10:00:00Z"`},
		},

		"JSON printer without grades should print an empty list.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewJSONPrinter(b) },
			expOutput: []string{"[]"},
		},

		"Markdown printer should print a row per grade.": {
			printer:   func(b *bytes.Buffer) printer.Printer { return printer.NewMarkdownPrinter(b) },
			grades:    []model.GradeReport{g},
			expOutput: []string{"# Grade History", "| 01JC3V7Z8K9Q2W4E6R8T0Y2U4I | 2025-11-10T12:30:00Z | 60/80 | On time (20/20) | **80** |"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := test.printer(&buf).PrintHistory(test.grades)
			require.NoError(t, err)

			for _, exp := range test.expOutput {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}
