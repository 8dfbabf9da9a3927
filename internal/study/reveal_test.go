package study

import (
	"sync"
	"testing"
	"time"
)

type manualTimers struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (m *manualTimers) after(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	task := &manualTask{delay: d, f: f}
	m.tasks = append(m.tasks, task)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if task.stopped || task.fired {
			return false
		}
		task.stopped = true
		return true
	}
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	var due []*manualTask
	for _, task := range m.tasks {
		if !task.stopped && !task.fired {
			task.fired = true
			due = append(due, task)
		}
	}
	m.mu.Unlock()
	for _, task := range due {
		task.f()
	}
}

func TestRevealSchedulerRunsAfterDelay(t *testing.T) {
	timers := &manualTimers{}
	s := NewRevealSchedulerWithTimer(DefaultFlipDelay, timers.after)

	ran := 0
	s.Schedule("s1", func() { ran++ })
	if ran != 0 || s.Pending("s1") != 1 {
		t.Fatalf("task ran early or was not queued")
	}
	if timers.tasks[0].delay != DefaultFlipDelay {
		t.Fatalf("expected delay %v, got %v", DefaultFlipDelay, timers.tasks[0].delay)
	}

	timers.fireAll()
	if ran != 1 || s.Pending("s1") != 0 {
		t.Fatalf("expected one run and nothing pending, got ran=%d pending=%d", ran, s.Pending("s1"))
	}
}

func TestRevealSchedulerCancel(t *testing.T) {
	timers := &manualTimers{}
	s := NewRevealSchedulerWithTimer(time.Millisecond, timers.after)

	ran := 0
	s.Schedule("s1", func() { ran++ })
	s.Schedule("s1", func() { ran++ })
	s.Schedule("s2", func() { ran += 10 })

	if dropped := s.Cancel("s1"); dropped != 2 {
		t.Fatalf("expected 2 cancelled tasks, got %d", dropped)
	}
	timers.fireAll()
	if ran != 10 {
		t.Fatalf("only the other session's task should run, got %d", ran)
	}
}

func TestRevealSchedulerIgnoresStaleToken(t *testing.T) {
	timers := &manualTimers{}
	s := NewRevealSchedulerWithTimer(time.Millisecond, timers.after)

	ran := false
	s.Schedule("s1", func() { ran = true })
	s.Cancel("s1")

	// The timer callback still fires if it lost the race with Stop.
	timers.tasks[0].f()
	if ran {
		t.Fatalf("cancelled task mutated state")
	}
}

func TestRevealSchedulerRealTimer(t *testing.T) {
	s := NewRevealScheduler(5 * time.Millisecond)
	done := make(chan struct{})
	s.Schedule("s1", func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reveal never ran")
	}
}
