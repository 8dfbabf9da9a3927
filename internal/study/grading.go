package study

import (
	"fmt"
	"strconv"
	"strings"

	"study-session-service/internal/domain"
)

// Grader scores submitted responses against built questions.
type Grader struct {
	threshold float64
}

// NewGrader returns a grader accepting written answers whose similarity
// exceeds threshold.
func NewGrader(threshold float64) *Grader {
	return &Grader{threshold: threshold}
}

// WrittenCorrect reports whether a free-text answer matches the expected one.
func (g *Grader) WrittenCorrect(submitted, expected string) bool {
	s := normalizeAnswer(submitted)
	e := normalizeAnswer(expected)
	return s == e || Similarity(s, e) > g.threshold
}

// Grade validates every response before scoring, then returns graded copies
// of questions. Questions without a response are incorrect. The input slice
// is never modified.
func (g *Grader) Grade(questions []domain.QuizQuestion, responses []domain.Response) (domain.GradeResult, error) {
	byOrder := make(map[int]int, len(questions))
	for i, q := range questions {
		byOrder[q.OrderIndex] = i
	}

	matched := make(map[int]domain.Response, len(responses))
	for _, r := range responses {
		pos, ok := byOrder[r.OrderIndex]
		if !ok {
			return domain.GradeResult{}, fmt.Errorf("%w: unknown order index %d", domain.ErrInvalidResponseShape, r.OrderIndex)
		}
		if questions[pos].Type != r.Type {
			return domain.GradeResult{}, fmt.Errorf("%w: question %d is %s, got %s", domain.ErrInvalidResponseShape, r.OrderIndex, questions[pos].Type, r.Type)
		}
		if _, dup := matched[pos]; dup {
			return domain.GradeResult{}, fmt.Errorf("%w: duplicate response for question %d", domain.ErrInvalidResponseShape, r.OrderIndex)
		}
		matched[pos] = r
	}

	graded := make([]domain.QuizQuestion, len(questions))
	correct := 0
	for i, q := range questions {
		q.Options = append([]domain.Option(nil), q.Options...)
		q.Correct = false
		if r, ok := matched[i]; ok {
			hit, err := g.gradeOne(q, r)
			if err != nil {
				return domain.GradeResult{}, err
			}
			q.Correct = hit
		}
		if q.Correct {
			correct++
		}
		graded[i] = q
	}

	return domain.GradeResult{
		Questions:      graded,
		CorrectCount:   correct,
		PercentCorrect: percent(correct, len(questions)),
	}, nil
}

func (g *Grader) gradeOne(q domain.QuizQuestion, r domain.Response) (bool, error) {
	if q.Type == domain.Written {
		return g.WrittenCorrect(r.Value, q.Answer), nil
	}

	raw := strings.TrimSpace(r.Value)
	if raw == "" {
		return false, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return false, fmt.Errorf("%w: option %q for question %d is not an index", domain.ErrInvalidResponseShape, r.Value, r.OrderIndex)
	}
	if idx < 0 || idx >= len(q.Options) {
		return false, fmt.Errorf("%w: option %d out of range for question %d", domain.ErrInvalidResponseShape, idx, r.OrderIndex)
	}
	return q.Options[idx].Option == q.Answer, nil
}

func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return 100 * correct / total
}
