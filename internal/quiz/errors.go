package quiz

import "fmt"

// Reason classifies an authoring mistake inside a quiz block.
type Reason string

const (
	// NoOptions: the question has no nested option list (or fewer than two
	// options). An option line at the wrong indent counts here too: ambiguous
	// nesting is an error, never a best-effort merge.
	NoOptions Reason = "no_options"
	// NoCorrectOption: options exist but none carries the correctness marker.
	NoCorrectOption Reason = "no_correct_option"
	// MalformedMarker: an option starts a brace token that is not the
	// correctness marker (typo, unclosed brace).
	MalformedMarker Reason = "malformed_marker"
)

// ParseError pinpoints one defective question. Question is 1-based, matching
// the numbering authors see in the source.
type ParseError struct {
	Question int
	Reason   Reason
	Detail   string
}

func (e ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("question %d: %s", e.Question, e.Reason)
	}
	return fmt.Sprintf("question %d: %s (%s)", e.Question, e.Reason, e.Detail)
}
