package study

import (
	"fmt"

	"study-session-service/internal/domain"
)

// Allocation is the number of questions assigned to one type.
type Allocation struct {
	Type  domain.QuestionType
	Count int
}

// Allocate splits total across the enabled types. The type order is shuffled
// first so the remainder does not always land on the same type; the last
// type in shuffled order absorbs it.
func Allocate(total int, enabled []domain.QuestionType, rnd RandomSource) ([]Allocation, error) {
	if len(enabled) == 0 {
		return nil, domain.ErrNoEnabledTypes
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: question count %d is negative", domain.ErrInvalidConfig, total)
	}

	order := shuffled(rnd, enabled)
	share := total / len(order)

	out := make([]Allocation, len(order))
	assigned := 0
	for i, t := range order {
		count := share
		if i == len(order)-1 {
			count = total - assigned
		}
		out[i] = Allocation{Type: t, Count: count}
		assigned += count
	}
	return out, nil
}

// Counts flattens allocations into a map.
func Counts(allocs []Allocation) map[domain.QuestionType]int {
	m := make(map[domain.QuestionType]int, len(allocs))
	for _, a := range allocs {
		m[a.Type] += a.Count
	}
	return m
}
