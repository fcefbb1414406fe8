package quiz

import (
	"reflect"
	"strings"
	"testing"
)

const geographyQuiz = `
Test your understanding of key concepts from this section.

1. What is the capital of France?
    - {data-correct} Paris
    - London
    - Rome

2. Which are primary colors of light?
    - {data-correct} Red
    - {data-correct} Green
    - Blue
`

func TestParseValidBlock(t *testing.T) {
	block, errs := Parse("Section 1.1 Quiz", geographyQuiz)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if block.Title != "Section 1.1 Quiz" {
		t.Errorf("title = %q", block.Title)
	}
	if block.Intro != "Test your understanding of key concepts from this section." {
		t.Errorf("intro = %q", block.Intro)
	}
	if len(block.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(block.Questions))
	}

	q1 := block.Questions[0]
	if q1.Prompt != "What is the capital of France?" {
		t.Errorf("q1 prompt = %q", q1.Prompt)
	}
	wantOpts := []Option{{Text: "Paris", Correct: true}, {Text: "London"}, {Text: "Rome"}}
	if !reflect.DeepEqual(q1.Options, wantOpts) {
		t.Errorf("q1 options = %+v", q1.Options)
	}
	if q1.MultiSelect() {
		t.Error("q1 should be single-select")
	}

	q2 := block.Questions[1]
	if !q2.MultiSelect() {
		t.Error("q2 should be multi-select")
	}
	if got := q2.CorrectSet(); len(got) != 2 {
		t.Errorf("q2 correct set = %v", got)
	}
}

func TestParseStripsMarkerEverywhere(t *testing.T) {
	block, errs := Parse("t", geographyQuiz)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	for qi, q := range block.Questions {
		for oi, o := range q.Options {
			if strings.Contains(o.Text, markerToken) || strings.Contains(o.Text, "{") {
				t.Errorf("question %d option %d leaks marker: %q", qi+1, oi+1, o.Text)
			}
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a, aErrs := Parse("t", geographyQuiz)
	b, bErrs := Parse("t", geographyQuiz)
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(aErrs, bErrs) {
		t.Error("parsing the same source twice gave different results")
	}
}

func TestParseMarkerSpacingAndParenNumbers(t *testing.T) {
	src := `
1) Pick one.
    - { data-correct } Yes
    - No
`
	block, errs := Parse("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := block.Questions[0].Options[0]; got.Text != "Yes" || !got.Correct {
		t.Errorf("option = %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		question int
		reason   Reason
	}{
		{
			name: "no correct option",
			src: `
1. Fine question?
    - {data-correct} Yes
    - No

2. Nobody is right here?
    - First
    - Second
`,
			question: 2,
			reason:   NoCorrectOption,
		},
		{
			name: "no options at all",
			src: `
1. Where did my options go?

2. Fine question?
    - {data-correct} Yes
    - No
`,
			question: 1,
			reason:   NoOptions,
		},
		{
			name: "single option",
			src: `
1. Take it or leave it?
    - {data-correct} Take it
`,
			question: 1,
			reason:   NoOptions,
		},
		{
			name: "option not nested under question",
			src: `
1. Badly indented?
- {data-correct} Yes
- No
`,
			question: 1,
			reason:   NoOptions,
		},
		{
			name: "marker typo",
			src: `
1. Typo in the marker?
    - {data-corect} Yes
    - No
`,
			question: 1,
			reason:   MalformedMarker,
		},
		{
			name: "unclosed marker",
			src: `
1. Unclosed brace?
    - {data-correct Yes
    - No
`,
			question: 1,
			reason:   MalformedMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse("t", tt.src)
			if len(errs) == 0 {
				t.Fatal("expected parse errors, got none")
			}
			found := false
			for _, e := range errs {
				if e.Question == tt.question && e.Reason == tt.reason {
					found = true
				}
			}
			if !found {
				t.Errorf("want question %d reason %s, got %v", tt.question, tt.reason, errs)
			}
		})
	}
}

func TestParseMalformedMarkerSuppressesNoCorrect(t *testing.T) {
	src := `
1. Typo in the only marker?
    - {data-corect} Yes
    - No
`
	_, errs := Parse("t", src)
	for _, e := range errs {
		if e.Reason == NoCorrectOption {
			t.Errorf("NoCorrectOption should be suppressed after a marker error: %v", errs)
		}
	}
}

func TestParseReportsEveryDefect(t *testing.T) {
	src := `
1. No options here?

2. Nobody right?
    - A
    - B

3. Fine?
    - {data-correct} Yes
    - No
`
	block, errs := Parse("t", src)
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %v", errs)
	}
	if errs[0].Question != 1 || errs[0].Reason != NoOptions {
		t.Errorf("errs[0] = %v", errs[0])
	}
	if errs[1].Question != 2 || errs[1].Reason != NoCorrectOption {
		t.Errorf("errs[1] = %v", errs[1])
	}
	// Defective questions stay in the block so rendering can fail closed.
	if len(block.Questions) != 3 {
		t.Errorf("got %d questions, want 3", len(block.Questions))
	}
	if block.Questions[2].Gradable() != true {
		t.Error("question 3 should be gradable")
	}
	if block.Questions[1].Gradable() {
		t.Error("question 2 should not be gradable")
	}
}

func TestParseWrappedPromptAndOption(t *testing.T) {
	src := `
1. A prompt that
   continues on the next line?
    - {data-correct} An answer that
      also wraps
    - Short
`
	block, errs := Parse("t", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	q := block.Questions[0]
	if q.Prompt != "A prompt that continues on the next line?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
	if q.Options[0].Text != "An answer that also wraps" {
		t.Errorf("option = %q", q.Options[0].Text)
	}
}
