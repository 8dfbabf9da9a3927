package study

import (
	"fmt"

	"study-session-service/internal/domain"
)

// Sampler draws distractors by rejection sampling with a bounded number of draws.
type Sampler struct {
	rnd         RandomSource
	maxAttempts int
}

// NewSampler builds a sampler allowing maxAttempts draws per requested value.
func NewSampler(rnd RandomSource, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxSampleAttempts
	}
	return &Sampler{rnd: rnd, maxAttempts: maxAttempts}
}

// SampleCards draws count distinct values of the given side from pool.
func (s *Sampler) SampleCards(pool []domain.Card, side domain.Side, exclude string, count int) ([]string, error) {
	return s.Sample(sideValues(pool, side, nil), exclude, count)
}

// Sample draws count distinct values from values, none equal to exclude.
// Values are compared by content, so replicated cards never collide with
// each other as separate distractors.
func (s *Sampler) Sample(values []string, exclude string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	if available := distinctExcluding(values, exclude); available < count {
		return nil, fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientDistinctValues, count, available)
	}

	chosen := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	budget := s.maxAttempts * count
	for attempt := 0; attempt < budget && len(chosen) < count; attempt++ {
		v := values[s.rnd.IntN(len(values))]
		if v == exclude {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		chosen = append(chosen, v)
	}
	if len(chosen) < count {
		return nil, fmt.Errorf("%w: gave up after %d draws", domain.ErrInsufficientDistinctValues, budget)
	}
	return chosen, nil
}

func distinctExcluding(values []string, exclude string) int {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != exclude {
			set[v] = struct{}{}
		}
	}
	return len(set)
}

func sideValues(cards []domain.Card, side domain.Side, clean func(string) string) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		v := side.Of(c)
		if clean != nil {
			v = clean(v)
		}
		out[i] = v
	}
	return out
}
