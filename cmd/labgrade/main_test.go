package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const server = `const express = require("express");
const app = express();
const PORT = 3000;
app.listen(PORT);
`

func TestRunGrade(t *testing.T) {
	tests := map[string]struct {
		files    map[string]string
		expOut   []string
		expTotal float64
	}{
		"An empty submission without git history should be graded as late.": {
			files:    map[string]string{"README.md": "# lab"},
			expOut:   []string{"# Lab Grade Summary", "**Total:** 10/100", "- Last commit: unknown"},
			expTotal: 10,
		},

		"An app init submission should get the attempt floor.": {
			files:    map[string]string{"server.js": server},
			expOut:   []string{"**Total:** 70/100", "- Lab: **60/80**", "### TODO 4: Enable CORS (server.js) — **4/16**"},
			expTotal: 70,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			root := t.TempDir()
			for name, data := range test.files {
				require.NoError(os.WriteFile(filepath.Join(root, name), []byte(data), 0o644))
			}
			summary := filepath.Join(t.TempDir(), "summary.md")

			args := []string{
				"labgrade", "--no-log", "--root", root, "--no-history",
				"grade",
				"--git-binary", filepath.Join(t.TempDir(), "missing-git"),
				"--summary-file", summary,
			}

			var stdout, stderr bytes.Buffer
			err := Run(context.Background(), args, nil, &stdout, &stderr)
			require.NoError(err)

			for _, exp := range test.expOut {
				assert.Contains(stdout.String(), exp)
			}

			jsonData, err := os.ReadFile(filepath.Join(root, "dist", "grading", "grade.json"))
			require.NoError(err)
			var got struct {
				Scoring struct {
					Total float64 `json:"total"`
				} `json:"scoring"`
			}
			require.NoError(json.Unmarshal(jsonData, &got))
			assert.Equal(test.expTotal, got.Scoring.Total)

			md, err := os.ReadFile(filepath.Join(root, "dist", "grading", "grade.md"))
			require.NoError(err)
			assert.Equal(stdout.String(), string(md))

			sum, err := os.ReadFile(summary)
			require.NoError(err)
			assert.Equal(string(md), string(sum))
		})
	}
}

func TestRunGradeRelativeOutDir(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "server.js"), []byte(server), 0o644))

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{
		"labgrade", "--no-log", "--root", root, "--no-history",
		"grade", "--git-binary", filepath.Join(t.TempDir(), "missing-git"), "--summary-file", "", "--out-dir", "reports",
	}, nil, &stdout, &stderr)
	require.NoError(err)

	assert.FileExists(t, filepath.Join(root, "reports", "grade.json"))
	assert.FileExists(t, filepath.Join(root, "reports", "grade.md"))
}

func TestRunGradeInvalidRubric(t *testing.T) {
	rubricFile := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(rubricFile, []byte("id: broken\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"labgrade", "--no-log", "--no-history", "--root", t.TempDir(), "--rubric-file", rubricFile, "grade"}, nil, &stdout, &stderr)
	assert.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunRubric(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"labgrade", "rubric", "--format", "json"}, nil, &stdout, &stderr)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "6-2-node-express", got["id"])
	assert.Empty(t, stderr.String())
}

func TestRunHistory(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(os.WriteFile(filepath.Join(root, "server.js"), []byte(server), 0o644))
	db := filepath.Join(t.TempDir(), "history.db")
	gitBin := filepath.Join(t.TempDir(), "missing-git")

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), []string{"labgrade", "--no-log", "--root", root, "--history-db", db, "grade", "--git-binary", gitBin, "--summary-file", ""}, nil, &stdout, &stderr)
		require.NoError(err)
	}

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"labgrade", "--root", root, "--history-db", db, "history", "--format", "json"}, nil, &stdout, &stderr)
	require.NoError(err)

	var got []map[string]any
	require.NoError(json.Unmarshal(stdout.Bytes(), &got))
	require.Len(got, 2)
	for _, g := range got {
		assert.Equal(float64(70), g["total"])
		assert.Equal(root, g["repoRoot"])
	}

	// A single run shows the full report.
	runID, _ := got[0]["runId"].(string)
	stdout.Reset()
	err = Run(context.Background(), []string{"labgrade", "--history-db", db, "history", "--run-id", runID, "--format", "markdown"}, nil, &stdout, &stderr)
	require.NoError(err)
	assert.Contains(stdout.String(), "# Lab Grade Summary")
	assert.Contains(stdout.String(), "TODO 1: Initialize Express App (server.js)")
}
