package postgres

import (
	"context"
	"errors"
	"fmt"

	"study-session-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SetLoader loads study sets and their cards from Postgres.
type SetLoader struct {
	pool *pgxpool.Pool
}

func NewSetLoader(pool *pgxpool.Pool) *SetLoader {
	return &SetLoader{pool: pool}
}

func (l *SetLoader) LoadSet(ctx context.Context, setID string) (domain.Set, error) {
	set := domain.Set{ID: setID}
	err := l.pool.QueryRow(ctx, `SELECT title FROM sets WHERE id=$1`, setID).Scan(&set.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Set{}, domain.ErrSetNotFound
	}
	if err != nil {
		return domain.Set{}, fmt.Errorf("load set: %w", err)
	}

	rows, err := l.pool.Query(ctx, `SELECT id, term, definition, idx FROM cards WHERE set_id=$1 ORDER BY idx`, setID)
	if err != nil {
		return domain.Set{}, fmt.Errorf("load cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(&card.ID, &card.Term, &card.Definition, &card.Index); err != nil {
			return domain.Set{}, fmt.Errorf("scan card: %w", err)
		}
		set.Cards = append(set.Cards, card)
	}
	if err := rows.Err(); err != nil {
		return domain.Set{}, fmt.Errorf("load cards: %w", err)
	}
	return set, nil
}

// SaveSet upserts a set and replaces its cards in one transaction.
func (l *SetLoader) SaveSet(ctx context.Context, set domain.Set) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO sets (id, title) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		set.ID, set.Title); err != nil {
		return fmt.Errorf("save set: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE set_id=$1`, set.ID); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}

	batch := &pgx.Batch{}
	for _, card := range set.Cards {
		batch.Queue(`INSERT INTO cards (id, set_id, term, definition, idx) VALUES ($1, $2, $3, $4, $5)`,
			card.ID, set.ID, card.Term, card.Definition, card.Index)
	}
	results := tx.SendBatch(ctx, batch)
	for range set.Cards {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("save card: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("save cards: %w", err)
	}
	return tx.Commit(ctx)
}
