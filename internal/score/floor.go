package score

import "github.com/slok/labgrade/internal/model"

// Attempted returns true if any task shows a genuine attempt. Detections are
// indexed like tasks.
func Attempted(tasks []model.Task, detections []model.SignalSet) bool {
	for i, t := range tasks {
		if i >= len(detections) {
			break
		}
		if t.Attempt.Eval(detections[i]) {
			return true
		}
	}
	return false
}

// Floor raises an attempted subtotal in (0, floor) to floor.
func Floor(subtotal, floor int, attempted bool) int {
	if attempted && subtotal > 0 && subtotal < floor {
		return floor
	}
	return subtotal
}
