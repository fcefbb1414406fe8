// Package grading decides whether a selection answers a question correctly.
// A question is correct only on exact set equality between the selected
// option indices and the correct option indices: subsets and supersets of a
// multi-select answer are incorrect, with no partial credit.
package grading

import "fmt"

// Q is a minimal view of a question needed for grading: the total option
// count and the set of correct indices. Keeping grading off the full quiz
// model lets it grade questions supplied programmatically too.
type Q struct {
	Options int
	Correct map[int]struct{}
}

// Mode selects the widget semantics for a question.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// ModeFor derives the mode from the correct-option count. Never authored
// directly.
func ModeFor(q Q) Mode {
	if len(q.Correct) >= 2 {
		return ModeMulti
	}
	return ModeSingle
}

// Result is the outcome of grading one question's response.
type Result struct {
	Correct  bool
	Gradable bool   // false when the question violates structural invariants
	Feedback string // notice shown for ungradable questions
}

// Strategy grades a single question mode.
type Strategy interface {
	Grade(q Q, selected map[int]struct{}) (Result, error)
}

// Grader routes by mode to the correct Strategy and fails closed on
// structurally invalid questions.
type Grader interface {
	Grade(q Q, selected map[int]struct{}) (Result, error)
}

type defaultGrader struct {
	strategies map[Mode]Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader() Grader {
	return &defaultGrader{
		strategies: map[Mode]Strategy{
			ModeSingle: exactSetStrategy{},
			ModeMulti:  exactSetStrategy{},
		},
	}
}

func (g *defaultGrader) Grade(q Q, selected map[int]struct{}) (Result, error) {
	// Fail closed: a question with too few options or no correct option is
	// never graded all-wrong or all-right, it is reported ungradable.
	if q.Options < 2 || len(q.Correct) == 0 {
		return Result{Gradable: false, Feedback: "question cannot be graded: missing options or answer key"}, nil
	}
	for i := range selected {
		if i < 0 || i >= q.Options {
			return Result{}, fmt.Errorf("selected option %d out of range (%d options)", i, q.Options)
		}
	}
	s, ok := g.strategies[ModeFor(q)]
	if !ok {
		return Result{Gradable: false, Feedback: "no strategy available"}, nil
	}
	return s.Grade(q, selected)
}

// exactSetStrategy marks a response correct iff the selected set equals the
// correct set. An empty selection is a valid all-incorrect attempt.
type exactSetStrategy struct{}

func (exactSetStrategy) Grade(q Q, selected map[int]struct{}) (Result, error) {
	return Result{Correct: setEqual(q.Correct, selected), Gradable: true}, nil
}

func setEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
