package study

import (
	"fmt"
	"time"

	"study-session-service/internal/domain"
)

const (
	// DefaultTrueProbability is the chance that a true/false statement is true.
	DefaultTrueProbability = 0.3
	// DefaultFuzzyThreshold is the similarity a written answer must exceed.
	DefaultFuzzyThreshold = 0.85
	// DefaultMaxDistractors caps wrong options on a multiple-choice question.
	DefaultMaxDistractors = 3
	// DefaultMaxSampleAttempts bounds rejection sampling per requested distractor.
	DefaultMaxSampleAttempts = 64
	// DefaultMaxQuestions caps the size of one quiz.
	DefaultMaxQuestions = 500
	// DefaultFlipDelay is the pause between a flip and the side swap.
	DefaultFlipDelay = 150 * time.Millisecond
)

// Tuning holds the engine constants. Every field is taken as given, zero
// included; start from DefaultTuning and override what you need.
type Tuning struct {
	TrueProbability   float64       `yaml:"trueProbability"`
	FuzzyThreshold    float64       `yaml:"fuzzyThreshold"`
	MaxDistractors    int           `yaml:"maxDistractors"`
	MaxSampleAttempts int           `yaml:"maxSampleAttempts"`
	MaxQuestions      int           `yaml:"maxQuestions"`
	FlipDelay         time.Duration `yaml:"flipDelay"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		TrueProbability:   DefaultTrueProbability,
		FuzzyThreshold:    DefaultFuzzyThreshold,
		MaxDistractors:    DefaultMaxDistractors,
		MaxSampleAttempts: DefaultMaxSampleAttempts,
		MaxQuestions:      DefaultMaxQuestions,
		FlipDelay:         DefaultFlipDelay,
	}
}

// Validate checks every field is in range.
func (t Tuning) Validate() error {
	if t.TrueProbability < 0 || t.TrueProbability > 1 {
		return fmt.Errorf("%w: true probability %v out of range [0, 1]", domain.ErrInvalidConfig, t.TrueProbability)
	}
	if t.FuzzyThreshold < 0 || t.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: fuzzy threshold %v out of range [0, 1]", domain.ErrInvalidConfig, t.FuzzyThreshold)
	}
	if t.MaxDistractors < 0 {
		return fmt.Errorf("%w: max distractors %d must not be negative", domain.ErrInvalidConfig, t.MaxDistractors)
	}
	if t.MaxSampleAttempts < 1 {
		return fmt.Errorf("%w: max sample attempts %d must be positive", domain.ErrInvalidConfig, t.MaxSampleAttempts)
	}
	if t.MaxQuestions < 1 {
		return fmt.Errorf("%w: max questions %d must be positive", domain.ErrInvalidConfig, t.MaxQuestions)
	}
	if t.FlipDelay < 0 {
		return fmt.Errorf("%w: flip delay %v must not be negative", domain.ErrInvalidConfig, t.FlipDelay)
	}
	return nil
}
