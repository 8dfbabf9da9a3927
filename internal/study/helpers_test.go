package study

import (
	"fmt"

	"study-session-service/internal/domain"
)

func makeCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			ID:         fmt.Sprintf("c%d", i),
			Term:       fmt.Sprintf("T%d", i+1),
			Definition: fmt.Sprintf("D%d", i+1),
			Index:      i,
		}
	}
	return cards
}

// fixedFloat pins Float64 and delegates everything else.
type fixedFloat struct {
	*Random
	value float64
}

func (f fixedFloat) Float64() float64 {
	return f.value
}
