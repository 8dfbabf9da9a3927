package domain

import "errors"

var (
	// ErrNoEnabledTypes is returned when a quiz is requested with every question type disabled.
	ErrNoEnabledTypes = errors.New("no question types enabled")
	// ErrInsufficientCards is returned when a quiz or flashcard session is requested for an empty set.
	ErrInsufficientCards = errors.New("set has no cards")
	// ErrInsufficientDistinctValues is returned when distractors cannot be drawn from the pool.
	ErrInsufficientDistinctValues = errors.New("not enough distinct values for distractors")
	// ErrInvalidResponseShape indicates a submitted response does not match any question.
	ErrInvalidResponseShape = errors.New("response does not match any question")
	// ErrInvalidConfig indicates a malformed quiz or flashcard configuration.
	ErrInvalidConfig = errors.New("invalid study configuration")

	// ErrRoundPending is returned when navigating before a completed round is acknowledged.
	ErrRoundPending = errors.New("round completed, continue required")
	// ErrSessionComplete is returned for events sent to a finished progressive session.
	ErrSessionComplete = errors.New("flashcard session complete")
	// ErrUnknownEvent indicates an unsupported flashcard event.
	ErrUnknownEvent = errors.New("unknown flashcard event")

	// ErrSetNotFound indicates the set could not be loaded.
	ErrSetNotFound = errors.New("set not found")
	// ErrAttemptNotFound indicates a quiz attempt is unknown or expired.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrSessionNotFound is returned when a flashcard session has not been started.
	ErrSessionNotFound = errors.New("flashcard session not found")
)
