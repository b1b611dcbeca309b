package repository

import (
	"context"

	"catalog-backend/internal/domains/author/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the persistence collaborator for authors.
type RepositoryInterface interface {
	// Create inserts a new author
	// Returns: created author with ID, timestamps, version=0
	Create(ctx context.Context, author *model.Author) (*model.Author, error)

	// CreateMany inserts all authors in one transaction, or none of them
	CreateMany(ctx context.Context, authors []*model.Author) ([]model.Author, error)

	// GetByID retrieves author by UUID
	// Returns: ErrAuthorNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetAll retrieves paginated list of authors
	// Returns: authors slice + total count for pagination
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// Update updates an existing author with optimistic locking
	// Errors: ErrVersionMismatch if conflict, ErrAuthorNotFound if not exists
	Update(ctx context.Context, author *model.Author, currentVersion int) (*model.Author, error)

	// Delete removes author by ID
	// Returns: ErrAuthorNotFound if not exists
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkDelete removes multiple authors
	// Returns: count of successfully deleted + errors for failed ones
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, []model.BulkError, error)

	// ExistsByID checks if author exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
