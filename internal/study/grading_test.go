package study

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"study-session-service/internal/domain"
)

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"photosynthesis", "photosynthesis", 1},
		{"photosynthesis", "photosintesis", 18.0 / 25.0},
		{"cat", "dog", 0},
		{"a", "a", 1},
		{"a", "b", 0},
		{"the powerhouse of the cell", "the powerhouse of the cel", 40.0 / 41.0},
		{"night", "nacht", 0.25},
	}
	for _, tc := range cases {
		got := Similarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestWrittenCorrect(t *testing.T) {
	g := NewGrader(DefaultFuzzyThreshold)
	cases := []struct {
		submitted, expected string
		want                bool
	}{
		{"  Photosynthesis ", "photosynthesis", true},
		{"PHOTOSYNTHESIS", "photosynthesis", true},
		{"photosynthesis.", "photosynthesis", true},
		{"the powerhouse of the cel", "The powerhouse of the cell", true},
		{"cat", "dog", false},
		{"photosintesis", "photosynthesis", false},
		{"", "photosynthesis", false},
		{"Straße", "STRASSE", true},
	}
	for _, tc := range cases {
		if got := g.WrittenCorrect(tc.submitted, tc.expected); got != tc.want {
			t.Errorf("WrittenCorrect(%q, %q) = %v, want %v", tc.submitted, tc.expected, got, tc.want)
		}
	}
}

func TestWrittenCorrectHonoursThreshold(t *testing.T) {
	if !NewGrader(0.7).WrittenCorrect("photosintesis", "photosynthesis") {
		t.Fatalf("expected a 0.72 match to pass a 0.7 threshold")
	}
}

func sampleQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{Type: domain.Written, Prompt: "D1", AnswerWith: domain.SideTerm, Answer: "Mitochondria", OrderIndex: 0},
		{Type: domain.TrueOrFalse, Prompt: "D2", AnswerWith: domain.SideTerm, Answer: "False", TrueOrFalseOption: "T3",
			Options: []domain.Option{{Option: "True"}, {Option: "False", Correct: true}}, OrderIndex: 1},
		{Type: domain.MultipleChoice, Prompt: "D3", AnswerWith: domain.SideTerm, Answer: "T3",
			Options: []domain.Option{{Option: "T1"}, {Option: "T3", Correct: true}, {Option: "T2"}}, OrderIndex: 2},
	}
}

func TestGradeScoresEachType(t *testing.T) {
	questions := sampleQuestions()
	res, err := NewGrader(DefaultFuzzyThreshold).Grade(questions, []domain.Response{
		{OrderIndex: 0, Type: domain.Written, Value: " mitochondria"},
		{OrderIndex: 1, Type: domain.TrueOrFalse, Value: "0"},
		{OrderIndex: 2, Type: domain.MultipleChoice, Value: "1"},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	got := []bool{res.Questions[0].Correct, res.Questions[1].Correct, res.Questions[2].Correct}
	if !reflect.DeepEqual(got, []bool{true, false, true}) {
		t.Fatalf("unexpected grading %v", got)
	}
	if res.CorrectCount != 2 || res.PercentCorrect != 66 {
		t.Fatalf("expected 2 correct and 66%%, got %d and %d", res.CorrectCount, res.PercentCorrect)
	}
	for _, q := range questions {
		if q.Correct {
			t.Fatalf("input questions were modified")
		}
	}
}

func TestGradeUnansweredIsIncorrect(t *testing.T) {
	res, err := NewGrader(DefaultFuzzyThreshold).Grade(sampleQuestions(), []domain.Response{
		{OrderIndex: 1, Type: domain.TrueOrFalse, Value: ""},
		{OrderIndex: 2, Type: domain.MultipleChoice, Value: "  "},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.CorrectCount != 0 || res.PercentCorrect != 0 {
		t.Fatalf("expected nothing correct, got %+v", res)
	}
}

func TestGradeIsIdempotent(t *testing.T) {
	g := NewGrader(DefaultFuzzyThreshold)
	responses := []domain.Response{
		{OrderIndex: 0, Type: domain.Written, Value: "mitocondria"},
		{OrderIndex: 1, Type: domain.TrueOrFalse, Value: "1"},
		{OrderIndex: 2, Type: domain.MultipleChoice, Value: "2"},
	}
	first, err := g.Grade(sampleQuestions(), responses)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	second, err := g.Grade(first.Questions, responses)
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("regrading changed the result: %+v vs %+v", first, second)
	}
}

func TestGradeRejectsMalformedResponses(t *testing.T) {
	g := NewGrader(DefaultFuzzyThreshold)
	cases := map[string][]domain.Response{
		"unknown index": {{OrderIndex: 9, Type: domain.Written, Value: "x"}},
		"type mismatch": {{OrderIndex: 0, Type: domain.MultipleChoice, Value: "0"}},
		"duplicate":     {{OrderIndex: 2, Type: domain.MultipleChoice, Value: "0"}, {OrderIndex: 2, Type: domain.MultipleChoice, Value: "1"}},
		"not a number":  {{OrderIndex: 2, Type: domain.MultipleChoice, Value: "T3"}},
		"out of range":  {{OrderIndex: 1, Type: domain.TrueOrFalse, Value: "2"}},
	}
	for name, responses := range cases {
		if _, err := g.Grade(sampleQuestions(), responses); !errors.Is(err, domain.ErrInvalidResponseShape) {
			t.Errorf("%s: expected ErrInvalidResponseShape, got %v", name, err)
		}
	}
}

func TestGradeBuiltQuiz(t *testing.T) {
	b := mustBuilder(t, NewRandom(4), DefaultTuning())
	questions, err := b.Build(makeCards(6), allTypes(6, domain.AnswerWithBoth))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	responses := make([]domain.Response, 0, len(questions))
	for _, q := range questions {
		r := domain.Response{OrderIndex: q.OrderIndex, Type: q.Type}
		if q.Type == domain.Written {
			r.Value = q.Answer
		} else {
			for i, o := range q.Options {
				if o.Correct {
					r.Value = string(rune('0' + i))
				}
			}
		}
		responses = append(responses, r)
	}

	res, err := NewGrader(DefaultFuzzyThreshold).Grade(questions, responses)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.PercentCorrect != 100 {
		t.Fatalf("expected a perfect score, got %+v", res)
	}
}
