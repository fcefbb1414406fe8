package grading

import "testing"

func set(idx ...int) map[int]struct{} {
	s := map[int]struct{}{}
	for _, i := range idx {
		s[i] = struct{}{}
	}
	return s
}

func TestGradeExactSetEquality(t *testing.T) {
	g := NewGrader()

	tests := []struct {
		name     string
		q        Q
		selected map[int]struct{}
		correct  bool
	}{
		{"single exact", Q{Options: 3, Correct: set(0)}, set(0), true},
		{"single wrong", Q{Options: 3, Correct: set(0)}, set(1), false},
		{"single superset", Q{Options: 3, Correct: set(0)}, set(0, 1), false},
		{"single nothing selected", Q{Options: 3, Correct: set(0)}, set(), false},
		{"multi exact", Q{Options: 3, Correct: set(0, 1)}, set(1, 0), true},
		{"multi subset", Q{Options: 3, Correct: set(0, 1)}, set(0), false},
		{"multi superset", Q{Options: 3, Correct: set(0, 1)}, set(0, 1, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Grade(tt.q, tt.selected)
			if err != nil {
				t.Fatalf("grade: %v", err)
			}
			if !res.Gradable {
				t.Fatal("question should be gradable")
			}
			if res.Correct != tt.correct {
				t.Errorf("correct = %v, want %v", res.Correct, tt.correct)
			}
		})
	}
}

func TestGradeDeterministic(t *testing.T) {
	g := NewGrader()
	q := Q{Options: 4, Correct: set(1, 3)}
	sel := set(1, 3)
	first, _ := g.Grade(q, sel)
	for i := 0; i < 10; i++ {
		res, _ := g.Grade(q, sel)
		if res != first {
			t.Fatalf("grading not deterministic: %+v vs %+v", res, first)
		}
	}
}

func TestGradeFailsClosed(t *testing.T) {
	g := NewGrader()

	res, err := g.Grade(Q{Options: 3, Correct: set()}, set(0))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Gradable {
		t.Error("question with no correct option must be ungradable")
	}
	if res.Correct {
		t.Error("ungradable question must not be marked correct")
	}

	res, err = g.Grade(Q{Options: 1, Correct: set(0)}, set())
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Gradable {
		t.Error("question with one option must be ungradable")
	}
}

func TestGradeRejectsOutOfRangeSelection(t *testing.T) {
	g := NewGrader()
	if _, err := g.Grade(Q{Options: 2, Correct: set(0)}, set(5)); err == nil {
		t.Error("expected error for out-of-range selection")
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(Q{Options: 3, Correct: set(0)}) != ModeSingle {
		t.Error("one correct option should be single-select")
	}
	if ModeFor(Q{Options: 3, Correct: set(0, 2)}) != ModeMulti {
		t.Error("two correct options should be multi-select")
	}
}
