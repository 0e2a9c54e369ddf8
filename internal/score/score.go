// Package score converts detected signals into points.
package score

import (
	"math"

	"github.com/slok/labgrade/internal/model"
)

// Task scores a task from its detected signals.
//
// Completeness is linear partial credit over every signal, correctness and quality
// are gates that give full points or half (rounded) as a fallback. Each sub-score
// is rounded independently. Tasks of an empty submission (emptySubmission, no source
// file found at all) score 0.
func Task(points model.TaskPoints, task model.Task, signals model.SignalSet, emptySubmission bool) model.TaskScore {
	if emptySubmission {
		return model.TaskScore{}
	}

	return model.TaskScore{
		Completeness: Completeness(signals, len(task.Signals), points.Completeness),
		Correctness:  Gate(task.Correctness.Eval(signals), points.Correctness),
		Quality:      Gate(task.Quality.Eval(signals), points.Quality),
	}
}

// Completeness returns round(hits/total * maxPoints).
func Completeness(signals model.SignalSet, total, maxPoints int) int {
	if total <= 0 {
		return 0
	}

	hits := min(signals.CountTrue(), total)
	return roundHalfUp(float64(hits) / float64(total) * float64(maxPoints))
}

// Gate returns maxPoints when ok, half of it otherwise.
func Gate(ok bool, maxPoints int) int {
	if ok {
		return maxPoints
	}
	return roundHalfUp(float64(maxPoints) / 2)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
