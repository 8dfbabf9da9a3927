package app

import (
	"errors"
	"sync"
	"time"

	"study-session-service/internal/domain"
	"study-session-service/internal/study"
)

// FlashcardSnapshot is what a presentation layer needs to draw the session.
type FlashcardSnapshot struct {
	SessionID        string      `json:"sessionId"`
	SetID            string      `json:"setId"`
	Mode             study.Mode  `json:"mode"`
	Card             domain.Card `json:"card"`
	Side             domain.Side `json:"side"`
	SideText         string      `json:"sideText"`
	Flipped          bool        `json:"flipped"`
	Progress         string      `json:"progress"`
	AtEnd            bool        `json:"atEnd"`
	Remaining        int         `json:"remaining"`
	Known            int         `json:"known"`
	Round            int         `json:"round"`
	LearnedThisRound int         `json:"learnedThisRound"`
	RoundCompleted   bool        `json:"roundCompleted"`
	Completed        bool        `json:"completed"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// errStaleReveal marks a deferred reveal that was overtaken by navigation.
var errStaleReveal = errors.New("reveal belongs to an earlier card")

// FlashcardSession owns one user's review state. Transitions are serialized
// by the session lock, including deferred reveals.
type FlashcardSession struct {
	id        string
	setID     string
	createdAt time.Time
	updatedAt time.Time
	now       func() time.Time
	rnd       study.RandomSource

	// saveMu is taken before mu; close waits for in-flight saves.
	saveMu sync.Mutex

	mu    sync.RWMutex
	state study.FlashcardState
	// face counts navigations; a reveal only lands on the face it was scheduled for.
	face        uint64
	closed      bool
	subscribers map[chan FlashcardSnapshot]struct{}
}

// NewFlashcardSession is exported for infrastructure layers that restore sessions.
func NewFlashcardSession(id, setID string, state study.FlashcardState, rnd study.RandomSource, now func() time.Time) *FlashcardSession {
	created := now()
	return &FlashcardSession{
		id:          id,
		setID:       setID,
		createdAt:   created,
		updatedAt:   created,
		now:         now,
		rnd:         rnd,
		state:       state,
		subscribers: make(map[chan FlashcardSnapshot]struct{}),
	}
}

func (s *FlashcardSession) ID() string {
	return s.id
}

func (s *FlashcardSession) SetID() string {
	return s.setID
}

// State returns the current state. States are never mutated in place.
func (s *FlashcardSession) State() study.FlashcardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot renders the current state.
func (s *FlashcardSession) Snapshot() FlashcardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// apply runs a user event and returns the face the session shows afterwards.
func (s *FlashcardSession) apply(ev study.Event) (FlashcardSnapshot, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return FlashcardSnapshot{}, s.face, domain.ErrSessionNotFound
	}
	next, err := study.Transition(s.state, ev, s.rnd)
	if err != nil {
		return s.snapshotLocked(), s.face, err
	}
	if ev.Navigates() || ev == study.EventContinue {
		s.face++
	}
	s.state = next
	s.updatedAt = s.now()
	return s.broadcastLocked(), s.face, nil
}

// reveal swaps the side only if nothing has navigated since face was observed.
func (s *FlashcardSession) reveal(face uint64) (FlashcardSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return FlashcardSnapshot{}, domain.ErrSessionNotFound
	}
	if face != s.face {
		return s.snapshotLocked(), errStaleReveal
	}
	next, err := study.Transition(s.state, study.EventReveal, s.rnd)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	s.updatedAt = s.now()
	return s.broadcastLocked(), nil
}

// saveIfOpen runs save unless the session has been closed. close blocks
// until a running save returns, so nothing is written after a close.
func (s *FlashcardSession) saveIfOpen(save func() error) (bool, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return false, nil
	}
	return true, save()
}

func (s *FlashcardSession) subscribe() (<-chan FlashcardSnapshot, func()) {
	ch := make(chan FlashcardSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// ch is empty, so this cannot block, and no broadcast can overtake it
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// close marks the session gone; late reveals and subscribers see nothing more.
func (s *FlashcardSession) close() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *FlashcardSession) broadcastLocked() FlashcardSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest snapshot so a slow reader never blocks a transition.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *FlashcardSession) snapshotLocked() FlashcardSnapshot {
	card, _ := s.state.CurrentCard()
	return FlashcardSnapshot{
		SessionID:        s.id,
		SetID:            s.setID,
		Mode:             s.state.Mode,
		Card:             card,
		Side:             s.state.Side,
		SideText:         s.state.SideText(),
		Flipped:          s.state.Flipped,
		Progress:         s.state.Progress(),
		AtEnd:            s.state.AtEnd(),
		Remaining:        len(s.state.Cards),
		Known:            len(s.state.KnownCardIDs),
		Round:            s.state.Round,
		LearnedThisRound: s.state.LearnedThisRound,
		RoundCompleted:   s.state.RoundCompleted,
		Completed:        s.state.Completed,
		UpdatedAt:        s.updatedAt,
	}
}
