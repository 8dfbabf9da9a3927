package study

import (
	"sort"

	"study-session-service/internal/domain"
)

// ExpandPool returns the cards ordered by Index, replicated cyclically when
// fewer cards exist than requested. Replicas keep their IDs.
func ExpandPool(cards []domain.Card, requested int) ([]domain.Card, error) {
	if len(cards) == 0 {
		if requested > 0 {
			return nil, domain.ErrInsufficientCards
		}
		return []domain.Card{}, nil
	}

	ordered := sortedByIndex(cards)
	if requested <= len(ordered) {
		return ordered, nil
	}

	copies := (requested + len(ordered) - 1) / len(ordered)
	pool := make([]domain.Card, 0, len(ordered)*(copies+1))
	pool = append(pool, ordered...)
	for i := 0; i < copies; i++ {
		pool = append(pool, ordered...)
	}
	return pool, nil
}

func sortedByIndex(cards []domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}
