package app

import (
	"context"
	"fmt"
	"log/slog"

	"study-session-service/internal/domain"
	"study-session-service/internal/study"
)

// SetRepository loads study sets (from cache/backing store).
type SetRepository interface {
	GetSet(ctx context.Context, setID string) (domain.Set, error)
}

// AttemptRepository keeps generated quizzes until they are graded.
type AttemptRepository interface {
	SaveAttempt(ctx context.Context, attempt domain.QuizAttempt) error
	GetAttempt(ctx context.Context, attemptID string) (domain.QuizAttempt, error)
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sets     SetRepository
	attempts AttemptRepository
	tuning   study.Tuning
	opts     options
	logger   *slog.Logger
}

func NewQuizService(sets SetRepository, attempts AttemptRepository, tuning study.Tuning, opts ...Option) *QuizService {
	o := applyOptions(tuning, opts)
	return &QuizService{
		sets:     sets,
		attempts: attempts,
		tuning:   tuning,
		opts:     o,
		logger:   o.logger,
	}
}

// StartQuiz builds a quiz over the set's cards and stores it as a new attempt.
func (s *QuizService) StartQuiz(ctx context.Context, setID string, cfg domain.QuizConfig) (domain.QuizAttempt, error) {
	set, err := s.sets.GetSet(ctx, setID)
	if err != nil {
		return domain.QuizAttempt{}, err
	}

	builder, err := study.NewBuilder(s.opts.newRandom(), s.tuning)
	if err != nil {
		return domain.QuizAttempt{}, err
	}
	questions, err := builder.Build(set.Cards, cfg)
	if err != nil {
		s.logger.Warn("quiz build failed", "set_id", setID, "error", err)
		return domain.QuizAttempt{}, err
	}

	attempt := domain.QuizAttempt{
		ID:        s.opts.newID(),
		SetID:     set.ID,
		Config:    cfg,
		Questions: questions,
		CreatedAt: s.opts.now(),
	}
	if err := s.attempts.SaveAttempt(ctx, attempt); err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("save attempt: %w", err)
	}

	s.logger.Info("quiz started", "set_id", setID, "attempt_id", attempt.ID, "questions", len(questions))
	return attempt, nil
}

// SubmitQuiz grades responses against a stored attempt. Submitting again
// regrades from scratch.
func (s *QuizService) SubmitQuiz(ctx context.Context, attemptID string, responses []domain.Response) (domain.GradeResult, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return domain.GradeResult{}, err
	}

	result, err := study.NewGrader(s.tuning.FuzzyThreshold).Grade(attempt.Questions, responses)
	if err != nil {
		return domain.GradeResult{}, err
	}

	attempt.Result = &result
	if err := s.attempts.SaveAttempt(ctx, attempt); err != nil {
		return domain.GradeResult{}, fmt.Errorf("save graded attempt: %w", err)
	}

	s.logger.Info("quiz graded", "attempt_id", attemptID, "percent_correct", result.PercentCorrect)
	return result, nil
}

// GetAttempt returns a stored attempt, graded or not.
func (s *QuizService) GetAttempt(ctx context.Context, attemptID string) (domain.QuizAttempt, error) {
	return s.attempts.GetAttempt(ctx, attemptID)
}
