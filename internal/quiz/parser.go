// Package quiz parses the textbook's quiz dialect: an admonition body holding
// a numbered list of questions, each with a nested dash list of options where
// correct options carry a {data-correct} marker.
package quiz

import (
	"fmt"
	"strings"
)

const markerToken = "data-correct"

// Parse converts the dedented body of one quiz admonition into a QuizBlock.
// It reports every authoring defect it finds, not just the first, so a build
// can list all problems in one pass. Defective questions stay in the block
// with whatever structure they had; rendering and grading fail closed on
// them. Parsing is pure: same input, same output.
func Parse(title, body string) (QuizBlock, []ParseError) {
	p := &parser{block: QuizBlock{Title: title}}
	for _, line := range strings.Split(body, "\n") {
		p.feed(line)
	}
	p.finishQuestion()
	p.block.Intro = strings.TrimSpace(strings.Join(p.intro, " "))
	return p.block, p.errs
}

type parser struct {
	block QuizBlock
	errs  []ParseError
	intro []string

	cur        *Question
	curIndent  int
	badNesting bool
	markerBad  bool
}

func (p *parser) feed(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	indent, text := splitIndent(line)

	if rest, ok := orderedItem(text); ok {
		p.finishQuestion()
		p.cur = &Question{Prompt: rest}
		p.curIndent = indent
		return
	}

	if rest, ok := dashItem(text); ok {
		switch {
		case p.cur == nil:
			// A list before the first question is lead-in prose.
			p.intro = append(p.intro, rest)
		case indent <= p.curIndent:
			// Option at the question's own level or shallower: ambiguous
			// nesting. Fail the question instead of guessing ownership.
			p.badNesting = true
		default:
			p.addOption(rest)
		}
		return
	}

	// Plain text: intro, prompt continuation, or option continuation.
	switch {
	case p.cur == nil:
		p.intro = append(p.intro, strings.TrimSpace(text))
	case len(p.cur.Options) == 0:
		p.cur.Prompt += " " + strings.TrimSpace(text)
	default:
		last := &p.cur.Options[len(p.cur.Options)-1]
		last.Text += " " + strings.TrimSpace(text)
	}
}

func (p *parser) addOption(text string) {
	clean, correct, detail, bad := extractMarker(text)
	if bad {
		p.markerBad = true
		p.errs = append(p.errs, ParseError{
			Question: len(p.block.Questions) + 1,
			Reason:   MalformedMarker,
			Detail:   detail,
		})
	}
	p.cur.Options = append(p.cur.Options, Option{Text: clean, Correct: correct})
}

// finishQuestion validates the question being accumulated and appends it to
// the block. Question indices in errors are 1-based to match source numbering.
func (p *parser) finishQuestion() {
	if p.cur == nil {
		return
	}
	q := *p.cur
	idx := len(p.block.Questions) + 1

	switch {
	case p.badNesting:
		p.errs = append(p.errs, ParseError{Question: idx, Reason: NoOptions, Detail: "option not nested under its question"})
	case len(q.Options) == 0:
		p.errs = append(p.errs, ParseError{Question: idx, Reason: NoOptions})
	case len(q.Options) < 2:
		p.errs = append(p.errs, ParseError{Question: idx, Reason: NoOptions, Detail: "a question needs at least two options"})
	case !p.markerBad && q.correctCount() == 0:
		// Suppressed when a marker was malformed: the author's intent was a
		// correct option, the marker error already names the problem.
		p.errs = append(p.errs, ParseError{Question: idx, Reason: NoCorrectOption})
	}

	p.block.Questions = append(p.block.Questions, q)
	p.cur = nil
	p.badNesting = false
	p.markerBad = false
}

// extractMarker strips a leading brace token from option text. Only the exact
// marker counts; any other brace token at the start is a malformed marker.
// Braces later in the text are ordinary content.
func extractMarker(text string) (clean string, correct bool, detail string, bad bool) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "{") {
		return s, false, "", false
	}
	end := strings.Index(s, "}")
	if end < 0 {
		return s, false, "unclosed marker brace", true
	}
	token := strings.TrimSpace(s[1:end])
	rest := strings.TrimSpace(s[end+1:])
	if token != markerToken {
		return rest, false, fmt.Sprintf("unknown marker {%s}", token), true
	}
	return rest, true, "", false
}

// splitIndent measures leading whitespace (tab counts as four columns) and
// returns the remainder of the line.
func splitIndent(line string) (int, string) {
	w := 0
	for i, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w, line[i:]
		}
	}
	return w, ""
}

// orderedItem matches "1. text" or "1) text".
func orderedItem(text string) (string, bool) {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(text) {
		return "", false
	}
	if text[i] != '.' && text[i] != ')' {
		return "", false
	}
	rest := text[i+1:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// dashItem matches "- text" or "* text".
func dashItem(text string) (string, bool) {
	if len(text) < 2 || (text[0] != '-' && text[0] != '*') {
		return "", false
	}
	if text[1] != ' ' && text[1] != '\t' {
		return "", false
	}
	return strings.TrimSpace(text[1:]), true
}
