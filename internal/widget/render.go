package widget

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/studypress/studypress/internal/grading"
	"github.com/studypress/studypress/internal/quiz"
)

// RenderHTML writes the self-contained widget markup for one quiz block.
// The id must be unique within the page and deterministic across builds
// (callers use a page-scoped sequence, not a random value). The answer key
// travels in a data attribute so the client-side shim can grade without a
// server round trip; an ungradable question gets disabled inputs and an
// inline notice instead of a key.
func RenderHTML(w io.Writer, block quiz.QuizBlock, id string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "<div class=\"sp-quiz\" id=\"%s\" data-quiz>\n", html.EscapeString(id))
	if block.Title != "" {
		fmt.Fprintf(&b, "<p class=\"sp-quiz-title\">%s</p>\n", html.EscapeString(block.Title))
	}
	if block.Intro != "" {
		fmt.Fprintf(&b, "<p class=\"sp-quiz-intro\">%s</p>\n", html.EscapeString(block.Intro))
	}

	b.WriteString("<form>\n")
	for qi, q := range block.Questions {
		writeQuestion(&b, q, id, qi)
	}
	b.WriteString("<div class=\"sp-quiz-actions\">\n")
	b.WriteString("<button type=\"button\" class=\"sp-quiz-submit\">Check answers</button>\n")
	b.WriteString("<button type=\"button\" class=\"sp-quiz-reset\" hidden>Try again</button>\n")
	b.WriteString("</div>\n")
	b.WriteString("<p class=\"sp-quiz-score\" hidden></p>\n")
	b.WriteString("</form>\n</div>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeQuestion(b *strings.Builder, q quiz.Question, id string, qi int) {
	mode := grading.ModeFor(grading.Q{Options: len(q.Options), Correct: q.CorrectSet()})
	gradable := q.Gradable()

	fmt.Fprintf(b, "<fieldset class=\"sp-question\" data-question=\"%d\" data-mode=\"%s\"", qi, mode)
	if gradable {
		fmt.Fprintf(b, " data-key=\"%s\"", answerKey(q))
	}
	b.WriteString(">\n")
	fmt.Fprintf(b, "<legend>%d. %s</legend>\n", qi+1, html.EscapeString(q.Prompt))

	inputType := "radio"
	if mode == grading.ModeMulti {
		inputType = "checkbox"
	}
	disabled := ""
	if !gradable {
		disabled = " disabled"
	}
	for oi, opt := range q.Options {
		fmt.Fprintf(b, "<label class=\"sp-option\"><input type=\"%s\" name=\"%s-q%d\" value=\"%d\"%s> %s</label>\n",
			inputType, html.EscapeString(id), qi, oi, disabled, html.EscapeString(opt.Text))
	}
	if !gradable {
		b.WriteString("<p class=\"sp-quiz-notice\">This question cannot be graded: it is missing options or a marked answer.</p>\n")
	}
	b.WriteString("</fieldset>\n")
}

// answerKey serializes the correct indices as a stable comma-joined list.
func answerKey(q quiz.Question) string {
	idx := make([]int, 0, len(q.Options))
	for i, o := range q.Options {
		if o.Correct {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
