// Package console runs a page's quizzes interactively in the terminal so
// authors can try them without building the site. It drives the same
// controller and grading path as the browser widget.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/studypress/studypress/internal/markdown"
	"github.com/studypress/studypress/internal/quiz"
	"github.com/studypress/studypress/internal/widget"
)

type Runner struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{in: bufio.NewScanner(in), out: out}
}

// RunPage extracts the quizzes from one page source and runs them in order.
// Authoring issues are shown as warnings first; their questions then fail
// closed during the run, same as in the browser.
func (r *Runner) RunPage(name string, source []byte) error {
	blocks, issues, err := markdown.New().ExtractQuizzes(source)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	for _, is := range issues {
		color.New(color.FgYellow).Fprintf(r.out, "warning: %s: %s\n", name, is)
	}
	if len(blocks) == 0 {
		fmt.Fprintf(r.out, "no quizzes in %s\n", name)
		return nil
	}

	fmt.Fprintf(r.out, "session %s\n", uuid.NewString())
	for _, block := range blocks {
		if aborted := r.runBlock(block); aborted {
			fmt.Fprintln(r.out, "(aborted)")
			return nil
		}
	}
	return nil
}

func (r *Runner) runBlock(block quiz.QuizBlock) (aborted bool) {
	c := widget.NewController(block)

	if block.Title != "" {
		color.New(color.Bold).Fprintf(r.out, "\n%s\n", block.Title)
	}
	if block.Intro != "" {
		fmt.Fprintf(r.out, "%s\n", block.Intro)
	}

	for qi, q := range block.Questions {
		fmt.Fprintf(r.out, "\n%d. %s\n", qi+1, q.Prompt)
		if !q.Gradable() {
			color.New(color.FgYellow).Fprintln(r.out, "   (this question cannot be graded, skipping)")
			continue
		}
		for oi, opt := range q.Options {
			fmt.Fprintf(r.out, "   %c) %s\n", letterFor(oi), opt.Text)
		}
		hint := "pick one letter"
		if q.MultiSelect() {
			hint = "pick one or more letters"
		}

		for {
			fmt.Fprintf(r.out, "%s > ", hint)
			if !r.in.Scan() {
				return true
			}
			selection, err := parseSelection(r.in.Text(), len(q.Options), q.MultiSelect())
			if err != nil {
				color.New(color.FgRed).Fprintf(r.out, "%v\n", err)
				continue
			}
			for _, idx := range selection {
				_ = c.Toggle(qi, idx)
			}
			break
		}
	}

	if err := c.Submit(); err != nil {
		color.New(color.FgRed).Fprintf(r.out, "grading failed: %v\n", err)
		return false
	}

	fmt.Fprintln(r.out)
	for qi, q := range block.Questions {
		res, ok := c.Result(qi)
		switch {
		case !ok || !res.Gradable:
			color.New(color.FgYellow).Fprintf(r.out, "%d. not graded\n", qi+1)
		case res.Correct:
			color.New(color.FgGreen).Fprintf(r.out, "%d. correct\n", qi+1)
		default:
			color.New(color.FgRed).Fprintf(r.out, "%d. incorrect (answer: %s)\n", qi+1, answerLetters(q))
		}
	}
	sum := c.Summary()
	color.New(color.Bold).Fprintf(r.out, "score: %d/%d\n", sum.Correct, sum.Gradable)
	if sum.Ungradable > 0 {
		color.New(color.FgYellow).Fprintf(r.out, "%d question(s) could not be graded\n", sum.Ungradable)
	}
	return false
}

// parseSelection turns "a" or "a,c" into option indices. Single-select
// questions take exactly one letter.
func parseSelection(line string, options int, multi bool) ([]int, error) {
	fields := strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("enter a letter between a and %c", letterFor(options-1))
	}
	if !multi && len(fields) > 1 {
		return nil, fmt.Errorf("this question takes a single answer")
	}

	seen := map[int]struct{}{}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if len(f) != 1 || f[0] < 'a' || int(f[0]-'a') >= options {
			return nil, fmt.Errorf("%q is not an option, enter a letter between a and %c", f, letterFor(options-1))
		}
		idx := int(f[0] - 'a')
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out, nil
}

func letterFor(i int) rune { return rune('a' + i) }

func answerLetters(q quiz.Question) string {
	var letters []string
	for i, o := range q.Options {
		if o.Correct {
			letters = append(letters, string(letterFor(i)))
		}
	}
	return strings.Join(letters, ", ")
}
