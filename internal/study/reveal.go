package study

import (
	"sync"
	"time"
)

// AfterFunc runs f after d and returns a function that stops it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// RevealScheduler runs deferred side swaps keyed by session. Every task
// carries its own token; a task whose token was cancelled never runs.
type RevealScheduler struct {
	delay time.Duration
	after AfterFunc

	mu      sync.Mutex
	next    uint64
	pending map[string]map[uint64]func() bool
}

// NewRevealScheduler delays each task by delay.
func NewRevealScheduler(delay time.Duration) *RevealScheduler {
	return NewRevealSchedulerWithTimer(delay, timeAfterFunc)
}

// NewRevealSchedulerWithTimer lets tests control when tasks fire.
func NewRevealSchedulerWithTimer(delay time.Duration, after AfterFunc) *RevealScheduler {
	return &RevealScheduler{
		delay:   delay,
		after:   after,
		pending: make(map[string]map[uint64]func() bool),
	}
}

// Schedule queues fn for sessionID and returns its token.
func (s *RevealScheduler) Schedule(sessionID string, fn func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	token := s.next
	tasks, ok := s.pending[sessionID]
	if !ok {
		tasks = make(map[uint64]func() bool)
		s.pending[sessionID] = tasks
	}
	tasks[token] = s.after(s.delay, func() { s.fire(sessionID, token, fn) })
	return token
}

func (s *RevealScheduler) fire(sessionID string, token uint64, fn func()) {
	s.mu.Lock()
	tasks, ok := s.pending[sessionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, live := tasks[token]; !live {
		s.mu.Unlock()
		return
	}
	delete(tasks, token)
	if len(tasks) == 0 {
		delete(s.pending, sessionID)
	}
	s.mu.Unlock()

	fn()
}

// Cancel stops every pending task of sessionID and returns how many it dropped.
func (s *RevealScheduler) Cancel(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.pending[sessionID]
	for _, stop := range tasks {
		stop()
	}
	delete(s.pending, sessionID)
	return len(tasks)
}

// Pending counts tasks still waiting for sessionID.
func (s *RevealScheduler) Pending(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[sessionID])
}
