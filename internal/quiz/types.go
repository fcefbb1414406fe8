package quiz

// Option is one selectable answer. Text has the correctness marker already
// stripped; the marker must never reach rendered output.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is one prompt plus its options in source order. Option order is
// meaningful: grading and any answer-key display index into it.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// MultiSelect reports whether the question is answered with checkboxes
// rather than radio buttons. Derived, never authored: two or more correct
// options means multi-select.
func (q Question) MultiSelect() bool {
	return q.correctCount() >= 2
}

// Gradable reports whether the question satisfies the structural invariants
// (at least two options, at least one correct). Ungradable questions are
// rendered with a notice and excluded from scoring.
func (q Question) Gradable() bool {
	return len(q.Options) >= 2 && q.correctCount() >= 1
}

// CorrectSet returns the indices of the correct options.
func (q Question) CorrectSet() map[int]struct{} {
	set := make(map[int]struct{})
	for i, o := range q.Options {
		if o.Correct {
			set[i] = struct{}{}
		}
	}
	return set
}

func (q Question) correctCount() int {
	n := 0
	for _, o := range q.Options {
		if o.Correct {
			n++
		}
	}
	return n
}

// QuizBlock is the parsed, immutable representation of one quiz admonition.
// It is safe to share across any number of widget instances; per-user state
// lives in widget.Controller.
type QuizBlock struct {
	Title     string     `json:"title,omitempty"`
	Intro     string     `json:"intro,omitempty"`
	Questions []Question `json:"questions"`
}
