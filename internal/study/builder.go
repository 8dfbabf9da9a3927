package study

import (
	"fmt"

	"study-session-service/internal/domain"
)

const (
	optionTrue  = "True"
	optionFalse = "False"
)

// Builder turns a card list and a quiz configuration into shuffled questions.
// A Builder is not safe for concurrent use; build one per quiz.
type Builder struct {
	rnd     RandomSource
	tuning  Tuning
	sampler *Sampler
}

// NewBuilder validates tuning and returns a builder drawing from rnd.
func NewBuilder(rnd RandomSource, tuning Tuning) (*Builder, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		rnd:     rnd,
		tuning:  tuning,
		sampler: NewSampler(rnd, tuning.MaxSampleAttempts),
	}, nil
}

// Build generates cfg.NumberOfQuestions questions. Each position of the
// expanded card pool is used by at most one question.
func (b *Builder) Build(cards []domain.Card, cfg domain.QuizConfig) ([]domain.QuizQuestion, error) {
	enabled := cfg.EnabledTypes()
	if len(enabled) == 0 {
		return nil, domain.ErrNoEnabledTypes
	}
	if err := validateQuizConfig(cfg, b.tuning.MaxQuestions); err != nil {
		return nil, err
	}

	pool, err := ExpandPool(cards, cfg.NumberOfQuestions)
	if err != nil {
		return nil, err
	}
	allocs, err := Allocate(cfg.NumberOfQuestions, enabled, b.rnd)
	if err != nil {
		return nil, err
	}

	unused := make([]int, len(pool))
	for i := range unused {
		unused[i] = i
	}

	questions := make([]domain.QuizQuestion, 0, cfg.NumberOfQuestions)
	for _, alloc := range allocs {
		perm := shuffled(b.rnd, unused)
		picks := perm[:alloc.Count]
		unused = perm[alloc.Count:]

		for _, idx := range picks {
			side := b.answerSide(cfg.AnswerWith)
			q, err := b.question(alloc.Type, pool, pool[idx], side, len(cards))
			if err != nil {
				return nil, fmt.Errorf("build %s question: %w", alloc.Type, err)
			}
			questions = append(questions, q)
		}
	}

	questions = shuffled(b.rnd, questions)
	for i := range questions {
		questions[i].OrderIndex = i
	}
	return questions, nil
}

func validateQuizConfig(cfg domain.QuizConfig, maxQuestions int) error {
	if cfg.NumberOfQuestions < 1 {
		return fmt.Errorf("%w: number of questions must be positive, got %d", domain.ErrInvalidConfig, cfg.NumberOfQuestions)
	}
	if cfg.NumberOfQuestions > maxQuestions {
		return fmt.Errorf("%w: number of questions %d exceeds the limit of %d", domain.ErrInvalidConfig, cfg.NumberOfQuestions, maxQuestions)
	}
	switch cfg.AnswerWith {
	case domain.AnswerWithTerm, domain.AnswerWithDefinition, domain.AnswerWithBoth:
	default:
		return fmt.Errorf("%w: answer with %q", domain.ErrInvalidConfig, cfg.AnswerWith)
	}
	return nil
}

// answerSide resolves the side the user answers with for one question.
func (b *Builder) answerSide(policy domain.AnswerWith) domain.Side {
	switch policy {
	case domain.AnswerWithDefinition:
		return domain.SideDefinition
	case domain.AnswerWithBoth:
		if b.rnd.IntN(2) == 0 {
			return domain.SideTerm
		}
		return domain.SideDefinition
	default:
		return domain.SideTerm
	}
}

func (b *Builder) question(t domain.QuestionType, pool []domain.Card, card domain.Card, side domain.Side, distinctCards int) (domain.QuizQuestion, error) {
	q := domain.QuizQuestion{
		Type:       t,
		Prompt:     side.Opposite().Of(card),
		AnswerWith: side,
	}

	switch t {
	case domain.Written:
		q.Answer = writtenAnswer(side.Of(card))

	case domain.TrueOrFalse:
		correct := side.Of(card)
		isTrue := b.rnd.Float64() < b.tuning.TrueProbability
		shown := correct
		if !isTrue {
			picked, err := b.sampler.SampleCards(pool, side, correct, 1)
			if err != nil {
				return q, err
			}
			shown = picked[0]
		}
		q.TrueOrFalseOption = shown
		q.Options = []domain.Option{
			{Option: optionTrue, Correct: isTrue},
			{Option: optionFalse, Correct: !isTrue},
		}
		q.Answer = optionFalse
		if isTrue {
			q.Answer = optionTrue
		}

	case domain.MultipleChoice:
		correct := stripParagraph(side.Of(card))
		count := min(b.tuning.MaxDistractors, distinctCards-1)
		distractors, err := b.sampler.Sample(sideValues(pool, side, stripParagraph), correct, max(count, 0))
		if err != nil {
			return q, err
		}
		options := make([]domain.Option, 0, len(distractors)+1)
		options = append(options, domain.Option{Option: correct, Correct: true})
		for _, d := range distractors {
			options = append(options, domain.Option{Option: d})
		}
		q.Options = shuffled(b.rnd, options)
		q.Answer = correct

	default:
		return q, fmt.Errorf("%w: question type %q", domain.ErrInvalidConfig, t)
	}
	return q, nil
}
