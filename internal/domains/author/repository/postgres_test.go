package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"catalog-backend/internal/domains/author/model"
	"catalog-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCacheKey(t *testing.T) {
	a := listCacheKey(model.AuthorFilter{SortBy: "family_name", Order: "ASC", Limit: 20})
	b := listCacheKey(model.AuthorFilter{SortBy: "family_name", Order: "asc", Limit: 20})
	c := listCacheKey(model.AuthorFilter{SortBy: "family_name", Order: "asc", Limit: 20, Offset: 20})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, authorListKeyPrefix)
}

func TestTranslatePgError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{
		Code:           pgCheckViolation,
		ConstraintName: "authors_family_name_length",
		Message:        "new row violates check constraint",
	})

	translated := translatePgError(err)
	require.Error(t, translated)
	assert.ErrorIs(t, translated, model.ErrValidation)

	var verr *model.ValidationError
	require.True(t, errors.As(translated, &verr))
	assert.Equal(t, []string{"family_name"}, verr.FieldNames())

	assert.Nil(t, translatePgError(errors.New("connection reset")))
	assert.Nil(t, translatePgError(&pgconn.PgError{Code: "40001"}))
}

// fakeCache is an in-process cache.Cache. When err is set every call fails.
type fakeCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	err      error
	deleted  []string
	patterns []string
}

var _ cache.Cache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	if f.err != nil {
		return f.err
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
	return f.err
}

func (f *fakeCache) Ping(context.Context) error { return f.err }

func cachedAuthor(t *testing.T) model.Author {
	t.Helper()
	dob, err := model.ParseDate("1775-12-16")
	require.NoError(t, err)
	return model.Author{
		ID:          uuid.New(),
		FirstName:   "Jane",
		FamilyName:  "Austen",
		DateOfBirth: dob,
		Version:     2,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// The repositories below have no pool: touching the database would panic.

func TestGetByID_CacheHitSkipsDatabase(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	want := cachedAuthor(t)
	require.NoError(t, fc.Set(ctx, authorCacheKeyPrefix+want.ID.String(), want, cacheTTL))

	repo := &postgresRepository{cache: fc}

	var got *model.Author
	require.NotPanics(t, func() {
		var err error
		got, err = repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
	})
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "Austen, Jane", got.Name())
	assert.Equal(t, "1775-12-16", got.YearMonthDateDoB())
	assert.Equal(t, 2, got.Version)
}

func TestGetAll_CacheHitSkipsDatabase(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	filter := model.AuthorFilter{SortBy: "family_name", Order: "asc", Limit: 20}
	a := cachedAuthor(t)
	require.NoError(t, fc.Set(ctx, listCacheKey(filter), cachedList{Authors: []model.Author{a}, Total: 41}, listCacheTTL))

	repo := &postgresRepository{cache: fc}

	require.NotPanics(t, func() {
		authors, total, err := repo.GetAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(41), total)
		require.Len(t, authors, 1)
		assert.Equal(t, a.ID, authors[0].ID)
	})
}

func TestCacheInvalidation_Keys(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	repo := &postgresRepository{cache: fc}
	id := uuid.New()

	repo.invalidateAuthorCache(ctx, id)
	repo.invalidateListCache(ctx)

	assert.Equal(t, []string{"author:" + id.String()}, fc.deleted)
	assert.Equal(t, []string{"authors:list:*"}, fc.patterns)
}

func TestCacheFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	fc.err = errors.New("redis: connection refused")
	repo := &postgresRepository{cache: fc}
	id := uuid.New()

	assert.NotPanics(t, func() {
		repo.cacheSet(ctx, authorCacheKeyPrefix+id.String(), cachedAuthor(t), cacheTTL)
		repo.invalidateAuthorCache(ctx, id)
		repo.invalidateListCache(ctx)
	})
	// invalidation is still attempted
	assert.Equal(t, []string{authorListKeyPrefix + "*"}, fc.patterns)
	assert.Empty(t, fc.data)
}

func TestCacheHelpers_NoCache(t *testing.T) {
	repo := &postgresRepository{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		repo.cacheSet(ctx, "author:x", "v", cacheTTL)
		repo.invalidateAuthorCache(ctx, uuid.New())
		repo.invalidateListCache(ctx)
	})
}
