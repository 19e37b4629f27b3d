package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pixilib/pixi/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, title, genre, summary, filename, mime_type, storage_path, status, error_message, upvotes, downvotes, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, title, genre, summary, filename, mime_type, storage_path, status, error_message, upvotes, downvotes, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		doc.ID, doc.Title, doc.Genre, doc.Summary, doc.Filename, doc.MimeType,
		doc.StoragePath, string(doc.Status), doc.Error, doc.Upvotes, doc.Downvotes, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, genre string) ([]domain.Document, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if genre != "" {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE genre = $1
ORDER BY upvotes DESC, created_at DESC
`, genre)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
ORDER BY upvotes DESC, created_at DESC
`)
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *DocumentRepository) Search(ctx context.Context, query string) ([]domain.Document, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE title ILIKE $1 OR summary ILIKE $1
ORDER BY created_at DESC
`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRowAffected(res, "update document status", id)
}

func (r *DocumentRepository) SaveEnrichment(ctx context.Context, id string, enrichment domain.Enrichment) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET genre = $2, summary = $3, updated_at = $4
WHERE id = $1
`, id, enrichment.Genre, enrichment.Summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save enrichment: %w", err)
	}
	return requireRowAffected(res, "save enrichment", id)
}

// Vote bumps the matching counter atomically and returns the updated document.
func (r *DocumentRepository) Vote(ctx context.Context, id string, direction domain.VoteDirection) (*domain.Document, error) {
	column := "upvotes"
	if direction == domain.VoteDown {
		column = "downvotes"
	}

	row := r.db.QueryRowContext(ctx, `
UPDATE documents
SET `+column+` = `+column+` + 1, updated_at = $2
WHERE id = $1
RETURNING `+documentColumns+`
`, id, time.Now().UTC())

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "vote document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("vote document: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Genre, &doc.Summary, &doc.Filename, &doc.MimeType,
		&doc.StoragePath, &status, &doc.Error, &doc.Upvotes, &doc.Downvotes, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
