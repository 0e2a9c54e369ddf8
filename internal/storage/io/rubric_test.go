package io

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/labgrade/internal/model"
	"github.com/slok/labgrade/internal/rubric"
)

const minimalRubric = `
id: test
version: "1"
title: Test
points: {completeness: 8, correctness: 4, quality: 4}
floor_points: 60
deadline:
  due: "2025-11-10T23:59:59+03:00"
  label: Riyadh
submission: {on_time_points: 20, late_points: 10}
search: {max_depth: 2}
files:
  - id: server
    name: server.js
    candidates: [server.js]
tasks:
  - id: t1
    label: Task 1
    signals:
      - id: listen
        file: server
        patterns: ['\bapp\.listen\(']
        pass: Listens.
        fail: Does not listen.
    correctness: {all: [listen]}
    quality: {all: [listen]}
    attempt: {any: [listen]}
`

func TestRubricYAMLRepository_GetRubric(t *testing.T) {
	due := time.Date(2025, 11, 10, 20, 59, 59, 0, time.UTC)

	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expRub func() model.Rubric
		expErr bool
		errMsg string
	}{
		"A valid rubric should load successfully": {
			fs:   fstest.MapFS{"rubric.yaml": &fstest.MapFile{Data: []byte(minimalRubric)}},
			path: "rubric.yaml",
			expRub: func() model.Rubric {
				return model.Rubric{
					ID:          "test",
					Version:     "1",
					Title:       "Test",
					Points:      model.TaskPoints{Completeness: 8, Correctness: 4, Quality: 4},
					FloorPoints: 60,
					Deadline:    model.Deadline{Due: due, Label: "Riyadh"},
					Submission:  model.SubmissionPolicy{OnTimePoints: 20, LatePoints: 10},
					Search:      model.SearchPolicy{MaxDepth: 2},
					Files: []model.SourceFile{
						{ID: "server", Name: "server.js", Candidates: []string{"server.js"}},
					},
					Tasks: []model.Task{
						{
							ID:    "t1",
							Label: "Task 1",
							Signals: []model.Signal{
								{ID: "listen", File: "server", Patterns: []string{`\bapp\.listen\(`}, Pass: "Listens.", Fail: "Does not listen."},
							},
							Correctness: model.Condition{All: []string{"listen"}},
							Quality:     model.Condition{All: []string{"listen"}},
							Attempt:     model.Condition{Any: []string{"listen"}},
						},
					},
				}
			},
		},

		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading rubric file",
		},

		"Invalid YAML should return error": {
			fs:     fstest.MapFS{"invalid.yaml": &fstest.MapFile{Data: []byte(`invalid: yaml: content: {}`)}},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},

		"A non RFC 3339 due date should return error": {
			fs: fstest.MapFS{"rubric.yaml": &fstest.MapFile{Data: []byte(`
id: test
deadline: {due: "2025-11-10 23:59:59"}
`)}},
			path:   "rubric.yaml",
			expErr: true,
			errMsg: "RFC 3339",
		},

		"A rubric without tasks should return error": {
			fs: fstest.MapFS{"rubric.yaml": &fstest.MapFile{Data: []byte(`
id: test
points: {completeness: 8, correctness: 4, quality: 4}
deadline: {due: "2025-11-10T23:59:59+03:00"}
submission: {on_time_points: 20, late_points: 10}
`)}},
			path:   "rubric.yaml",
			expErr: true,
			errMsg: "at least one task",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := NewRubricYAMLRepository(tc.fs)
			rb, err := repo.GetRubric(context.Background(), tc.path)

			if tc.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}

			require.NoError(t, err)
			exp := tc.expRub()
			assert.True(t, exp.Deadline.Due.Equal(rb.Deadline.Due))
			_, offset := rb.Deadline.Due.Zone()
			assert.Equal(t, 3*60*60, offset)

			// Times are compared as instants above.
			exp.Deadline.Due = rb.Deadline.Due
			assert.Equal(t, exp, rb)
		})
	}
}

func TestRubricYAMLRepository_GetRubric_Embedded(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := NewRubricYAMLRepository(rubric.FS)
	rb, err := repo.GetRubric(context.Background(), rubric.DefaultPath)
	require.NoError(err)

	assert.Equal("6-2-node-express", rb.ID)
	assert.Equal(16, rb.Points.Max())
	assert.Equal(60, rb.FloorPoints)
	assert.True(rb.ZeroEmptySubmission)
	assert.Equal("2025-11-10T20:59:59Z", rb.Deadline.Due.UTC().Format(time.RFC3339))
	assert.Equal(model.SubmissionPolicy{OnTimePoints: 20, LatePoints: 10}, rb.Submission)
	assert.Equal(5, rb.Search.MaxDepth)
	require.Len(rb.Tasks, 5)

	// Gates must stay exactly as the lab rubric defines them.
	gates := map[string][2]model.Condition{}
	for _, task := range rb.Tasks {
		gates[task.ID] = [2]model.Condition{task.Correctness, task.Quality}
	}
	assert.Equal(map[string][2]model.Condition{
		"app-init":     {{All: []string{"listen"}}, {All: []string{"port_defined", "express_imported"}}},
		"random-int":   {{All: []string{"uses_random", "uses_floor"}}, {All: []string{"exported"}}},
		"random-quote": {{All: []string{"random_index", "uses_quotes_array"}}, {All: []string{"exported"}}},
		"cors":         {{All: []string{"cors_used"}}, {All: []string{"cors_imported", "cors_used"}}},
		"routes":       {{All: []string{"quote_route", "responds_json"}}, {All: []string{"root_route", "quote_route"}}},
	}, gates)
}

func TestRubricYAMLRepository_GetRubric_ContextCancellation(t *testing.T) {
	fs := fstest.MapFS{"rubric.yaml": &fstest.MapFile{Data: []byte(minimalRubric)}}

	repo := NewRubricYAMLRepository(fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetRubric(ctx, "rubric.yaml")
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}
