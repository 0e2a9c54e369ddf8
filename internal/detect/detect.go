// Package detect evaluates rubric signals over submission source text.
package detect

import (
	"fmt"
	"regexp"

	"github.com/slok/labgrade/internal/model"
)

const (
	passMark = "✅"
	failMark = "❌"
)

// Predicate is a boolean test over optional file text.
type Predicate interface {
	Match(text string, found bool) bool
}

// FilePresent is true when the file has been found with some text.
type FilePresent struct{}

// Match satisfies Predicate.
func (FilePresent) Match(text string, found bool) bool { return found && text != "" }

// AnyPattern is true when any of the regexes matches the text, a disjunction of
// equivalent styles (e.g ESM import or CommonJS require).
type AnyPattern []*regexp.Regexp

// Match satisfies Predicate.
func (a AnyPattern) Match(text string, found bool) bool {
	if !found {
		return false
	}

	for _, r := range a {
		if r.MatchString(text) {
			return true
		}
	}

	return false
}

// Source is the located text of a rubric source file.
type Source struct {
	Path  string
	Text  string
	Found bool
}

type compiledSignal struct {
	model.Signal
	predicate Predicate
}

// Detector evaluates the signals of a rubric.
type Detector struct {
	tasks map[string][]compiledSignal
}

// NewDetector compiles the rubric signal predicates.
func NewDetector(r model.Rubric) (*Detector, error) {
	d := &Detector{tasks: map[string][]compiledSignal{}}
	for _, t := range r.Tasks {
		signals := make([]compiledSignal, 0, len(t.Signals))
		for _, s := range t.Signals {
			p, err := newPredicate(s)
			if err != nil {
				return nil, fmt.Errorf("task %q signal %q: %w", t.ID, s.ID, err)
			}
			signals = append(signals, compiledSignal{Signal: s, predicate: p})
		}
		d.tasks[t.ID] = signals
	}

	return d, nil
}

func newPredicate(s model.Signal) (Predicate, error) {
	if s.FilePresent {
		return FilePresent{}, nil
	}

	if len(s.Patterns) == 0 {
		return nil, fmt.Errorf("signal without predicate: %w", model.ErrNotValid)
	}

	ps := make(AnyPattern, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		ps = append(ps, r)
	}

	return ps, nil
}

// Detect evaluates the task signals using the sources, keyed by rubric file ID.
// Missing sources evaluate every predicate on them to false.
func (d *Detector) Detect(taskID string, sources map[string]Source) (model.Detection, error) {
	signals, ok := d.tasks[taskID]
	if !ok {
		return model.Detection{}, fmt.Errorf("task %q: %w", taskID, model.ErrNotFound)
	}

	det := model.Detection{
		Signals:  make(model.SignalSet, len(signals)),
		Feedback: make([]string, 0, len(signals)),
	}
	for _, s := range signals {
		src := sources[s.File]
		ok := s.predicate.Match(src.Text, src.Found)
		det.Signals[s.ID] = ok

		if ok {
			det.Feedback = append(det.Feedback, passMark+" "+s.Pass)
		} else {
			det.Feedback = append(det.Feedback, failMark+" "+s.Fail)
		}
	}

	return det, nil
}
