// Package widget owns the interactive quiz widget: the per-rendering
// response state machine and the HTML emitted for the browser. A Controller
// layers mutable selection state over an immutable quiz.QuizBlock; the block
// itself can back any number of controllers without synchronization.
package widget

import (
	"fmt"
	"sort"

	"github.com/studypress/studypress/internal/grading"
	"github.com/studypress/studypress/internal/quiz"
)

// State is the lifecycle of one question within a rendering. Submit grades
// synchronously, so a submitted question is immediately Graded.
type State int

const (
	Unanswered State = iota
	Selecting
	Graded
)

func (s State) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Selecting:
		return "selecting"
	case Graded:
		return "graded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// responseState is the mutable per-question record: what is selected and the
// grading verdict once submitted. Scoped to one Controller, discarded with it.
type responseState struct {
	selected map[int]struct{}
	graded   bool
	result   grading.Result
}

// Summary counts verdicts across the block. Total includes ungradable
// questions; Gradable is the denominator shown to the user.
type Summary struct {
	Correct    int
	Gradable   int
	Ungradable int
	Total      int
}

// Controller drives the submit/grade/reset lifecycle for one rendered quiz.
// Not safe for concurrent use: each rendering owns exactly one Controller.
type Controller struct {
	block     quiz.QuizBlock
	grader    grading.Grader
	responses []responseState
	submitted bool
}

func NewController(block quiz.QuizBlock) *Controller {
	c := &Controller{
		block:  block,
		grader: grading.NewGrader(),
	}
	c.clear()
	return c
}

func (c *Controller) clear() {
	c.responses = make([]responseState, len(c.block.Questions))
	for i := range c.responses {
		c.responses[i].selected = map[int]struct{}{}
	}
	c.submitted = false
}

// Block returns the immutable quiz content behind this controller.
func (c *Controller) Block() quiz.QuizBlock { return c.block }

// Toggle flips option opt of question q. Single-select questions get radio
// semantics (selecting one deselects the rest); multi-select questions get
// checkbox semantics. Selections are locked once submitted.
func (c *Controller) Toggle(q, opt int) error {
	if err := c.checkQuestion(q); err != nil {
		return err
	}
	if c.submitted {
		return fmt.Errorf("question %d is locked until reset", q+1)
	}
	question := c.block.Questions[q]
	if opt < 0 || opt >= len(question.Options) {
		return fmt.Errorf("question %d has no option %d", q+1, opt)
	}

	sel := c.responses[q].selected
	if _, on := sel[opt]; on {
		delete(sel, opt)
		return nil
	}
	if !question.MultiSelect() {
		for k := range sel {
			delete(sel, k)
		}
	}
	sel[opt] = struct{}{}
	return nil
}

// Submit locks every question and grades it synchronously. Submitting with
// nothing selected is a valid all-incorrect attempt, not an error.
func (c *Controller) Submit() error {
	if c.submitted {
		return fmt.Errorf("already submitted")
	}
	for i, q := range c.block.Questions {
		res, err := c.grader.Grade(grading.Q{Options: len(q.Options), Correct: q.CorrectSet()}, c.responses[i].selected)
		if err != nil {
			return fmt.Errorf("grade question %d: %w", i+1, err)
		}
		c.responses[i].result = res
		c.responses[i].graded = true
	}
	c.submitted = true
	return nil
}

// Reset returns every question to Unanswered with no residual selections.
func (c *Controller) Reset() { c.clear() }

// Submitted reports whether the block-level submit has happened.
func (c *Controller) Submitted() bool { return c.submitted }

// State returns the lifecycle state of question q.
func (c *Controller) State(q int) State {
	if err := c.checkQuestion(q); err != nil {
		return Unanswered
	}
	switch {
	case c.submitted:
		return Graded
	case len(c.responses[q].selected) > 0:
		return Selecting
	default:
		return Unanswered
	}
}

// Selected returns the selected option indices of question q in ascending
// order.
func (c *Controller) Selected(q int) []int {
	if err := c.checkQuestion(q); err != nil {
		return nil
	}
	out := make([]int, 0, len(c.responses[q].selected))
	for i := range c.responses[q].selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Result returns the grading verdict for question q; ok is false before
// submit.
func (c *Controller) Result(q int) (grading.Result, bool) {
	if err := c.checkQuestion(q); err != nil {
		return grading.Result{}, false
	}
	if !c.responses[q].graded {
		return grading.Result{}, false
	}
	return c.responses[q].result, true
}

// Summary tallies verdicts across the block. Before submit it reports zero
// correct out of the gradable total.
func (c *Controller) Summary() Summary {
	s := Summary{Total: len(c.block.Questions)}
	for i, q := range c.block.Questions {
		if !q.Gradable() {
			s.Ungradable++
			continue
		}
		s.Gradable++
		if c.responses[i].graded && c.responses[i].result.Correct {
			s.Correct++
		}
	}
	return s
}

func (c *Controller) checkQuestion(q int) error {
	if q < 0 || q >= len(c.block.Questions) {
		return fmt.Errorf("no question %d in block", q+1)
	}
	return nil
}
