package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

type IngestDocumentUseCase struct {
	repo              ports.DocumentRepository
	storage           ports.ObjectStorage
	queue             ports.MessageQueue
	allowedExtensions map[string]struct{}
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	allowedExtensions []string,
) *IngestDocumentUseCase {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &IngestDocumentUseCase{
		repo:              repo,
		storage:           storage,
		queue:             queue,
		allowedExtensions: allowed,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	title, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("filename is required"))
	}

	ext := extension(filename)
	if _, ok := uc.allowedExtensions[ext]; !ok {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"upload",
			fmt.Errorf("extension %q is not accepted", ext),
		)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		Title:       resolveTitle(title, filename),
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentIngested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return doc, nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// resolveTitle falls back to a readable form of the filename when the
// uploader left the title blank.
func resolveTitle(title, filename string) string {
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}

	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	words := strings.Fields(base)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	if len(words) == 0 {
		return "Untitled Document"
	}
	return strings.Join(words, " ")
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
