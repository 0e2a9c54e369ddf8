// Package deadline converts the submission commit time into submission points.
package deadline

import (
	"fmt"
	"time"

	"github.com/slok/labgrade/internal/model"
)

// Evaluate is a two outcome step function: a commit at or before the due instant gets
// the on time points, a later or unknown commit gets the late points.
func Evaluate(d model.Deadline, p model.SubmissionPolicy, lastCommit *time.Time) model.Timeliness {
	t := model.Timeliness{
		Status:    model.SubmissionStatusLate,
		Points:    p.LatePoints,
		MaxPoints: p.OnTimePoints,
	}

	if lastCommit == nil {
		return t
	}

	lc := lastCommit.UTC()
	t.LastCommit = &lc
	if !lc.After(d.Due) {
		t.Status = model.SubmissionStatusOnTime
		t.Points = p.OnTimePoints
	}

	return t
}

// StatusText returns the human readable status (e.g "On time (20/20)").
func StatusText(t model.Timeliness) string {
	switch t.Status {
	case model.SubmissionStatusOnTime:
		return fmt.Sprintf("On time (%d/%d)", t.Points, t.MaxPoints)
	default:
		return fmt.Sprintf("Late (%d/%d)", t.Points, t.MaxPoints)
	}
}
