package study

import (
	"errors"
	"testing"

	"study-session-service/internal/domain"
)

func TestSampleDistinctAndExcluding(t *testing.T) {
	pool, _ := ExpandPool(makeCards(6), 20)
	s := NewSampler(NewRandom(5), 0)
	for i := 0; i < 200; i++ {
		got, err := s.SampleCards(pool, domain.SideTerm, "T1", 3)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 values, got %v", got)
		}
		seen := map[string]bool{}
		for _, v := range got {
			if v == "T1" {
				t.Fatalf("excluded value drawn: %v", got)
			}
			if seen[v] {
				t.Fatalf("duplicate value drawn: %v", got)
			}
			seen[v] = true
		}
	}
}

func TestSampleInsufficientDistinctValues(t *testing.T) {
	s := NewSampler(NewRandom(1), 0)
	_, err := s.Sample([]string{"a", "a", "b", "b"}, "a", 2)
	if !errors.Is(err, domain.ErrInsufficientDistinctValues) {
		t.Fatalf("expected ErrInsufficientDistinctValues, got %v", err)
	}
	_, err = s.Sample([]string{"only"}, "only", 1)
	if !errors.Is(err, domain.ErrInsufficientDistinctValues) {
		t.Fatalf("expected ErrInsufficientDistinctValues, got %v", err)
	}
}

// stuckRandom always draws the first element.
type stuckRandom struct{ *Random }

func (stuckRandom) IntN(int) int { return 0 }

func TestSampleGivesUpAfterBudget(t *testing.T) {
	s := NewSampler(stuckRandom{NewRandom(1)}, 4)
	_, err := s.Sample([]string{"a", "b", "c"}, "a", 1)
	if !errors.Is(err, domain.ErrInsufficientDistinctValues) {
		t.Fatalf("expected bounded failure, got %v", err)
	}
}

func TestSampleZeroCount(t *testing.T) {
	got, err := NewSampler(NewRandom(1), 0).Sample(nil, "x", 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
}
