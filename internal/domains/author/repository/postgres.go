package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-backend/internal/domains/author/model"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// postgresRepository implements RepositoryInterface
// Uses pgxpool for PostgreSQL and Redis for caching
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new author repository instance.
// cache may be nil, in which case every read goes to the database.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	authorListKeyPrefix  = "authors:list:"
	cacheTTL             = 15 * time.Minute
	listCacheTTL         = 2 * time.Minute
)

const authorColumns = `id, first_name, family_name, date_of_birth, date_of_death, version, created_at, updated_at`

// PostgreSQL error codes
const (
	pgCheckViolation = "23514"
	pgNotNull        = "23502"
)

type cachedList struct {
	Authors []model.Author `json:"authors"`
	Total   int64          `json:"total"`
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.FamilyName,
		&a.DateOfBirth,
		&a.DateOfDeath,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.DateOfBirth = model.CalendarDate(a.DateOfBirth)
	a.DateOfDeath = model.CalendarDate(a.DateOfDeath)
	return &a, nil
}

// translatePgError maps constraint violations back to validation errors so a
// row that slipped past service validation still surfaces as a 400.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgCheckViolation, pgNotNull:
		field := "author"
		switch {
		case strings.Contains(pgErr.ConstraintName, "first_name"), pgErr.ColumnName == "first_name":
			field = "first_name"
		case strings.Contains(pgErr.ConstraintName, "family_name"), pgErr.ColumnName == "family_name":
			field = "family_name"
		}
		return model.FieldError(field, pgErr.Message)
	}
	return nil
}

// Create inserts new author with generated ID and timestamps
func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	created, err := insertAuthor(ctx, r.pool, a)
	if err != nil {
		return nil, err
	}

	r.invalidateListCache(ctx)
	return created, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAuthor(ctx context.Context, q querier, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (first_name, family_name, date_of_birth, date_of_death, version)
        VALUES ($1, $2, $3, $4, 0)
        RETURNING ` + authorColumns

	created, err := scanAuthor(q.QueryRow(ctx, query,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
	))
	if err != nil {
		if verr := translatePgError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return created, nil
}

// CreateMany inserts every author inside one transaction
func (r *postgresRepository) CreateMany(ctx context.Context, authors []*model.Author) ([]model.Author, error) {
	if len(authors) == 0 {
		return []model.Author{}, nil
	}

	created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]model.Author, error) {
		out := make([]model.Author, 0, len(authors))
		for i, a := range authors {
			c, err := insertAuthor(ctx, tx, a)
			if err != nil {
				return nil, fmt.Errorf("author %d: %w", i+1, err)
			}
			out = append(out, *c)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateListCache(ctx)
	return created, nil
}

// GetByID retrieves author by UUID with caching
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	cacheKey := authorCacheKeyPrefix + id.String()

	if r.cache != nil {
		var cached model.Author
		hit, err := r.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("author cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	r.cacheSet(ctx, cacheKey, a, cacheTTL)
	return a, nil
}

// GetAll retrieves paginated list with filtering and sorting.
// filter.SortBy must already be whitelisted by the caller.
func (r *postgresRepository) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	cacheKey := listCacheKey(filter)
	if r.cache != nil {
		var cached cachedList
		hit, err := r.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("author list cache read failed")
		} else if hit {
			return cached.Authors, cached.Total, nil
		}
	}

	var where strings.Builder
	where.WriteString(" WHERE 1=1")
	args := []any{}
	argPos := 1

	if filter.Search != "" {
		where.WriteString(fmt.Sprintf(
			" AND (first_name ILIKE $%d OR family_name ILIKE $%d OR (family_name || ', ' || first_name) ILIKE $%d)",
			argPos, argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	sortColumn := "family_name"
	if model.SortColumns[filter.SortBy] {
		sortColumn = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.Order, "desc") {
		sortOrder = "DESC"
	}

	query := `SELECT ` + authorColumns + ` FROM authors` + where.String() +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id ASC LIMIT $%d OFFSET $%d", sortColumn, sortOrder, argPos, argPos+1)
	listArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := []model.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating authors: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	r.cacheSet(ctx, cacheKey, cachedList{Authors: authors, Total: total}, listCacheTTL)
	return authors, total, nil
}

// Update updates author with optimistic locking
func (r *postgresRepository) Update(ctx context.Context, a *model.Author, currentVersion int) (*model.Author, error) {
	// WHERE clause includes version check
	query := `
        UPDATE authors
        SET
            first_name = $1,
            family_name = $2,
            date_of_birth = $3,
            date_of_death = $4,
            version = version + 1,
            updated_at = NOW()
        WHERE id = $5 AND version = $6
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
		a.ID,
		currentVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := r.ExistsByID(ctx, a.ID)
			if checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, model.ErrAuthorNotFound
			}
			// Author exists but version doesn't match = conflict
			return nil, model.ErrVersionMismatch
		}
		if verr := translatePgError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidateAuthorCache(ctx, a.ID)
	r.invalidateListCache(ctx)

	return updated, nil
}

// Delete removes author by ID
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.invalidateAuthorCache(ctx, id)
	r.invalidateListCache(ctx)

	return nil
}

// BulkDelete deletes multiple authors with transaction
func (r *postgresRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, []model.BulkError, error) {
	if len(ids) == 0 {
		return 0, nil, nil
	}

	successCount := 0
	var bulkErrors []model.BulkError

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, id := range ids {
			cmdTag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
			if err != nil {
				return fmt.Errorf("failed to delete author %s: %w", id, err)
			}
			if cmdTag.RowsAffected() == 0 {
				bulkErrors = append(bulkErrors, model.BulkError{
					ID:      id,
					Message: model.ErrAuthorNotFound.Error(),
				})
				continue
			}
			successCount++
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	for _, id := range ids {
		r.invalidateAuthorCache(ctx, id)
	}
	r.invalidateListCache(ctx)

	return successCount, bulkErrors, nil
}

// ExistsByID checks if author exists (lightweight query)
func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

func listCacheKey(f model.AuthorFilter) string {
	return fmt.Sprintf("%s%s:%s:%s:%d:%d",
		authorListKeyPrefix, strings.ToLower(f.SortBy), strings.ToLower(f.Order), f.Search, f.Limit, f.Offset)
}

// Cache helper methods. Cache failures never fail the request.

func (r *postgresRepository) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache write failed")
	}
}

func (r *postgresRepository) invalidateAuthorCache(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, authorCacheKeyPrefix+id.String()); err != nil {
		log.Warn().Err(err).Str("author_id", id.String()).Msg("author cache invalidation failed")
	}
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeletePattern(ctx, authorListKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("author list cache invalidation failed")
	}
}
