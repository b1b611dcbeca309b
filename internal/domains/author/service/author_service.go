package service

import (
	"context"
	"fmt"
	"strings"

	"catalog-backend/internal/domains/author/model"
	"catalog-backend/internal/domains/author/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type authorService struct {
	repo repository.RepositoryInterface
}

// NewAuthorService wires the service to its repository.
func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{
		repo: repo,
	}
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	author, err := req.ToEntity()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	log.Info().
		Str("author_id", created.ID.String()).
		Str("name", created.Name()).
		Msg("Author created")
	return created, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}

	// Repository handles cache + DB
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	filter, err := model.NormalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	// % and _ are ILIKE wildcards
	filter.Search = escapeWildcards(filter.Search)

	return s.repo.GetAll(ctx, filter)
}

// Update applies a partial update with optimistic locking.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Client MUST send the version it is updating from
	if *req.Version != current.Version {
		return nil, model.ErrVersionMismatch
	}

	updated := req.ApplyToEntity(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	result, err := s.repo.Update(ctx, updated, current.Version)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("author_id", id.String()).
		Int("version", result.Version).
		Msg("Author updated")
	return result, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrAuthorNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("author_id", id.String()).Msg("Author deleted")
	return nil
}

func (s *authorService) BulkDelete(ctx context.Context, req model.BulkDeleteRequest) (int, []model.BulkError, error) {
	if len(req.IDs) == 0 {
		return 0, nil, nil
	}
	if len(req.IDs) > model.MaxBulkDelete {
		return 0, nil, fmt.Errorf("%w: %d ids, maximum is %d", model.ErrBatchTooLarge, len(req.IDs), model.MaxBulkDelete)
	}

	seen := make(map[uuid.UUID]bool, len(req.IDs))
	ids := make([]uuid.UUID, 0, len(req.IDs))
	var bulkErrors []model.BulkError
	for _, id := range req.IDs {
		switch {
		case id == uuid.Nil:
			bulkErrors = append(bulkErrors, model.BulkError{ID: id, Message: "invalid author id"})
		case seen[id]:
			// duplicates count once
		default:
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return 0, bulkErrors, nil
	}

	deleted, repoErrors, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, nil, fmt.Errorf("bulk delete failed: %w", err)
	}
	bulkErrors = append(bulkErrors, repoErrors...)

	log.Info().
		Int("requested", len(req.IDs)).
		Int("deleted", deleted).
		Int("failed", len(bulkErrors)).
		Msg("Bulk delete completed")
	return deleted, bulkErrors, nil
}

// escapeWildcards keeps user input from acting as an ILIKE pattern.
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslash first
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
