package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pixilib/pixi/internal/core/domain"
)

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tickets (id, title, description, votes, created_at)
VALUES ($1,$2,$3,$4,$5)
`, ticket.ID, ticket.Title, ticket.Description, ticket.Votes, ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, votes, created_at
FROM tickets
ORDER BY votes DESC, created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Votes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// Upvote increments atomically in the database, so concurrent votes never
// lose updates. Returns the new count.
func (r *TicketRepository) Upvote(ctx context.Context, id string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE tickets
SET votes = votes + 1
WHERE id = $1
RETURNING votes
`, id)

	var votes int
	if err := row.Scan(&votes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.WrapError(domain.ErrNotFound, "upvote ticket", fmt.Errorf("id=%s", id))
		}
		return 0, fmt.Errorf("upvote ticket: %w", err)
	}
	return votes, nil
}
