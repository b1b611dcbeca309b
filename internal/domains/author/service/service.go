package service

import (
	"context"
	"io"

	"catalog-backend/internal/domains/author/model"

	"github.com/go-playground/locales"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ServiceInterface - business logic for authors
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, req model.BulkDeleteRequest) (int, []model.BulkError, error)

	// Import reads a CSV document. Row problems are reported in the
	// result; the error is reserved for infrastructure failures.
	Import(ctx context.Context, src io.Reader) (*model.ImportResult, error)

	// Export renders the filtered authors as a workbook, formatting
	// lifespans with tr.
	Export(ctx context.Context, filter model.AuthorFilter, tr locales.Translator) (*excelize.File, error)
}
