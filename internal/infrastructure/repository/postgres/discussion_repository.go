package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pixilib/pixi/internal/core/domain"
)

type DiscussionRepository struct {
	db *sql.DB
}

func NewDiscussionRepository(db *sql.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

func (r *DiscussionRepository) Create(ctx context.Context, discussion *domain.Discussion) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO discussions (id, document_id, parent_id, author, content, upvotes, downvotes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		discussion.ID, discussion.DocumentID, discussion.ParentID, discussion.Author,
		discussion.Content, discussion.Upvotes, discussion.Downvotes, discussion.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert discussion: %w", err)
	}
	return nil
}

func (r *DiscussionRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Discussion, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, parent_id, author, content, upvotes, downvotes, created_at
FROM discussions
WHERE document_id = $1
ORDER BY parent_id, created_at DESC
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list discussions: %w", err)
	}
	defer rows.Close()

	discussions := make([]domain.Discussion, 0)
	for rows.Next() {
		var d domain.Discussion
		err := rows.Scan(
			&d.ID, &d.DocumentID, &d.ParentID, &d.Author,
			&d.Content, &d.Upvotes, &d.Downvotes, &d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan discussion row: %w", err)
		}
		discussions = append(discussions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discussions: %w", err)
	}
	return discussions, nil
}

// Vote bumps the matching counter atomically and returns the updated comment.
func (r *DiscussionRepository) Vote(ctx context.Context, id string, direction domain.VoteDirection) (*domain.Discussion, error) {
	column := "upvotes"
	if direction == domain.VoteDown {
		column = "downvotes"
	}

	row := r.db.QueryRowContext(ctx, `
UPDATE discussions
SET `+column+` = `+column+` + 1
WHERE id = $1
RETURNING id, document_id, parent_id, author, content, upvotes, downvotes, created_at
`, id)

	var d domain.Discussion
	err := row.Scan(
		&d.ID, &d.DocumentID, &d.ParentID, &d.Author,
		&d.Content, &d.Upvotes, &d.Downvotes, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "vote discussion", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("vote discussion: %w", err)
	}
	return &d, nil
}
