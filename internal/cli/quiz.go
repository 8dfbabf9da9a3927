package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
	"study-session-service/internal/infra/memory"
	"study-session-service/internal/study"

	"github.com/spf13/cobra"
)

type quizFlags struct {
	setFile    string
	setID      string
	questions  int
	answerWith string
	types      []string
	seed       uint64
}

// NewQuizCmd generates a quiz from a local set file and prints it as JSON.
func NewQuizCmd(logger *slog.Logger) *cobra.Command {
	var f quizFlags
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a quiz from a YAML set file",
		RunE: func(cmd *cobra.Command, args []string) error {
			attempt, err := generateQuiz(cmd.Context(), f, logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(attempt)
		},
	}

	cmd.Flags().StringVar(&f.setFile, "set", "", "path to a YAML set file")
	cmd.Flags().StringVar(&f.setID, "set-id", "", "set to quiz on (defaults to the only set in the file)")
	cmd.Flags().IntVar(&f.questions, "questions", 10, "number of questions")
	cmd.Flags().StringVar(&f.answerWith, "answer-with", string(domain.AnswerWithDefinition), "term, definition or both")
	cmd.Flags().StringSliceVar(&f.types, "types", []string{string(domain.Written), string(domain.TrueOrFalse), string(domain.MultipleChoice)}, "question types to enable")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed; 0 picks one from the clock")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func generateQuiz(ctx context.Context, f quizFlags, logger *slog.Logger) (domain.QuizAttempt, error) {
	sets, err := memory.ReadSetFile(f.setFile)
	if err != nil {
		return domain.QuizAttempt{}, err
	}

	setID := f.setID
	if setID == "" {
		if len(sets) != 1 {
			return domain.QuizAttempt{}, fmt.Errorf("set file holds %d sets, pick one with --set-id", len(sets))
		}
		for id := range sets {
			setID = id
		}
	}

	cfg := domain.QuizConfig{
		NumberOfQuestions: f.questions,
		AnswerWith:        domain.AnswerWith(f.answerWith),
	}
	for _, typ := range f.types {
		switch domain.QuestionType(strings.TrimSpace(typ)) {
		case domain.Written:
			cfg.Written = true
		case domain.TrueOrFalse:
			cfg.TrueOrFalse = true
		case domain.MultipleChoice:
			cfg.MultipleChoice = true
		default:
			return domain.QuizAttempt{}, fmt.Errorf("%w: question type %q", domain.ErrInvalidConfig, typ)
		}
	}

	opts := []app.Option{app.WithLogger(logger)}
	if f.seed != 0 {
		opts = append(opts, app.WithRandom(func() study.RandomSource { return study.NewRandom(f.seed) }))
	}
	service := app.NewQuizService(
		memory.NewSetRepository(memory.NewStaticSetLoader(sets), time.Minute),
		memory.NewAttemptStore(0),
		study.DefaultTuning(),
		opts...,
	)
	return service.StartQuiz(ctx, setID, cfg)
}
