package study

import (
	"fmt"

	"study-session-service/internal/domain"
)

// Mode selects how a flashcard session walks its cards.
type Mode string

const (
	// Traditional walks the cards linearly in both directions.
	Traditional Mode = "traditional"
	// Progressive repeats rounds, dropping cards marked known after each one.
	Progressive Mode = "progressive"
)

// Event is a user action (or the deferred reveal) applied to a session.
type Event string

const (
	EventFlip     Event = "flip"
	EventReveal   Event = "reveal"
	EventNext     Event = "next"
	EventPrevious Event = "previous"
	EventKnow     Event = "know"
	EventContinue Event = "continue"
)

// Navigates reports whether the event moves between cards.
func (e Event) Navigates() bool {
	return e == EventNext || e == EventPrevious || e == EventKnow
}

// FlashcardOptions configures a new session.
type FlashcardOptions struct {
	Mode       Mode        `json:"mode"`
	AnswerWith domain.Side `json:"answerWith"`
	Shuffle    bool        `json:"shuffle"`
}

// FlashcardState is an immutable snapshot of a flashcard session.
type FlashcardState struct {
	Mode             Mode            `json:"mode"`
	Cards            []domain.Card   `json:"cards"`
	Index            int             `json:"index"`
	KnownCardIDs     map[string]bool `json:"knownCardIds"`
	RoundCompleted   bool            `json:"roundCompleted"`
	Completed        bool            `json:"completed"`
	ShufflingEnabled bool            `json:"shufflingEnabled"`
	AnswerWith       domain.Side     `json:"answerWith"`
	Side             domain.Side     `json:"side"`
	Flipped          bool            `json:"flipped"`
	LearnedThisRound int             `json:"learnedThisRound"`
	Round            int             `json:"round"`
}

// Begin starts a session over cards ordered by Index, shuffled when asked.
// The visible side is the one opposite the side the user answers with.
func Begin(cards []domain.Card, opts FlashcardOptions, rnd RandomSource) (FlashcardState, error) {
	if len(cards) == 0 {
		return FlashcardState{}, domain.ErrInsufficientCards
	}
	if opts.Mode != Traditional && opts.Mode != Progressive {
		return FlashcardState{}, fmt.Errorf("%w: flashcard mode %q", domain.ErrInvalidConfig, opts.Mode)
	}
	if !opts.AnswerWith.Valid() {
		return FlashcardState{}, fmt.Errorf("%w: answer with %q", domain.ErrInvalidConfig, opts.AnswerWith)
	}

	ordered := sortedByIndex(cards)
	if opts.Shuffle {
		ordered = shuffled(rnd, ordered)
	}

	return FlashcardState{
		Mode:             opts.Mode,
		Cards:            ordered,
		KnownCardIDs:     map[string]bool{},
		ShufflingEnabled: opts.Shuffle,
		AnswerWith:       opts.AnswerWith,
		Side:             opts.AnswerWith.Opposite(),
		Round:            1,
	}, nil
}

// Transition applies ev to s and returns the next state. s is not modified.
func Transition(s FlashcardState, ev Event, rnd RandomSource) (FlashcardState, error) {
	if s.Completed {
		return s, domain.ErrSessionComplete
	}
	next := s.clone()

	switch ev {
	case EventFlip:
		if next.RoundCompleted {
			return s, domain.ErrRoundPending
		}
		next.Flipped = !next.Flipped

	case EventReveal:
		next.Side = next.Side.Opposite()

	case EventNext, EventPrevious, EventKnow:
		if next.RoundCompleted {
			return s, domain.ErrRoundPending
		}
		direction := 1
		if ev == EventPrevious {
			direction = -1
		}
		if ev == EventKnow && next.Mode == Progressive {
			if card, ok := next.CurrentCard(); ok {
				next.KnownCardIDs[card.ID] = true
				next.LearnedThisRound++
			}
		}
		next.advance(direction, rnd)

	case EventContinue:
		if !next.RoundCompleted {
			return s, nil
		}
		next.RoundCompleted = false
		next.LearnedThisRound = 0
		next.Round++

	default:
		return s, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev)
	}
	return next, nil
}

func (s *FlashcardState) advance(direction int, rnd RandomSource) {
	last := len(s.Cards) - 1
	if s.Index == 0 && direction < 0 {
		return
	}
	if s.Index == last && direction > 0 {
		if s.Mode == Progressive {
			s.completeRound(rnd)
		}
		return
	}
	s.Index += direction
	s.resetFace()
}

func (s *FlashcardState) completeRound(rnd RandomSource) {
	remaining := make([]domain.Card, 0, len(s.Cards))
	for _, c := range s.Cards {
		if !s.KnownCardIDs[c.ID] {
			remaining = append(remaining, c)
		}
	}

	s.Cards = remaining
	s.Index = 0
	s.RoundCompleted = true
	s.resetFace()
	if len(remaining) == 0 {
		s.Completed = true
		return
	}
	if s.ShufflingEnabled {
		s.Cards = shuffled(rnd, s.Cards)
	}
}

func (s *FlashcardState) resetFace() {
	s.Flipped = false
	s.Side = s.AnswerWith.Opposite()
}

func (s FlashcardState) clone() FlashcardState {
	out := s
	out.Cards = append([]domain.Card(nil), s.Cards...)
	out.KnownCardIDs = make(map[string]bool, len(s.KnownCardIDs))
	for id, known := range s.KnownCardIDs {
		out.KnownCardIDs[id] = known
	}
	return out
}

// CurrentCard returns the card at Index, if any remain.
func (s FlashcardState) CurrentCard() (domain.Card, bool) {
	if s.Index < 0 || s.Index >= len(s.Cards) {
		return domain.Card{}, false
	}
	return s.Cards[s.Index], true
}

// SideText is the text currently shown.
func (s FlashcardState) SideText() string {
	card, ok := s.CurrentCard()
	if !ok {
		return ""
	}
	return s.Side.Of(card)
}

// Progress renders the position as "{index+1}/{total}".
func (s FlashcardState) Progress() string {
	return fmt.Sprintf("%d/%d", s.Index+1, len(s.Cards))
}

// AtEnd reports whether a traditional session sits on its last card.
func (s FlashcardState) AtEnd() bool {
	return s.Index == len(s.Cards)-1
}
