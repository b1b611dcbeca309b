package repository

import (
	"context"
	"testing"
	"time"

	"catalog-backend/internal/domains/author/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAuthor(t *testing.T, first, family, dob string) *model.Author {
	t.Helper()
	d, err := model.ParseDate(dob)
	require.NoError(t, err)
	a, err := model.NewAuthor(first, family, d, nil)
	require.NoError(t, err)
	return a
}

func seedMemory(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	_, err := repo.CreateMany(context.Background(), []*model.Author{
		mustAuthor(t, "Patrick", "Rothfuss", "1973-06-06"),
		mustAuthor(t, "Ben", "Bova", "1932-11-08"),
		mustAuthor(t, "Isaac", "Asimov", "1920-01-02"),
		mustAuthor(t, "Bob", "Billings", ""),
		mustAuthor(t, "Jim", "Jones", "1971-12-16"),
	})
	require.NoError(t, err)
	return repo
}

func familyNames(authors []model.Author) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = a.FamilyName
	}
	return out
}

func TestMemoryRepository_CreateAssignsIdentity(t *testing.T) {
	repo := NewMemoryRepository()
	created, err := repo.Create(context.Background(), mustAuthor(t, "Jane", "Austen", "1775-12-16"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 0, created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestMemoryRepository_CreateIgnoresCallerID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	first, err := repo.Create(ctx, mustAuthor(t, "Jane", "Austen", "1775-12-16"))
	require.NoError(t, err)

	clash := mustAuthor(t, "Isaac", "Asimov", "1920-01-02")
	clash.ID = first.ID
	second, err := repo.Create(ctx, clash)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Austen", got.FamilyName)
	assert.Equal(t, 2, repo.Count())
}

func TestMemoryRepository_CreateManyIsAllOrNothing(t *testing.T) {
	repo := NewMemoryRepository()
	bad := &model.Author{FirstName: "", FamilyName: "Nobody"}

	_, err := repo.CreateMany(context.Background(), []*model.Author{
		mustAuthor(t, "Jane", "Austen", ""),
		bad,
	})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 0, repo.Count())
}

func TestMemoryRepository_GetAllOrdering(t *testing.T) {
	repo := seedMemory(t)
	ctx := context.Background()

	authors, total, err := repo.GetAll(ctx, model.AuthorFilter{SortBy: "family_name", Order: "asc", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"Asimov", "Billings", "Bova", "Jones", "Rothfuss"}, familyNames(authors))

	// missing dates sort last in both directions
	authors, _, err = repo.GetAll(ctx, model.AuthorFilter{SortBy: "date_of_birth", Order: "desc", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rothfuss", "Jones", "Bova", "Asimov", "Billings"}, familyNames(authors))

	authors, _, err = repo.GetAll(ctx, model.AuthorFilter{SortBy: "date_of_birth", Order: "asc", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Asimov", "Bova", "Jones", "Rothfuss", "Billings"}, familyNames(authors))
}

func TestMemoryRepository_GetAllPagingAndSearch(t *testing.T) {
	repo := seedMemory(t)
	ctx := context.Background()

	authors, total, err := repo.GetAll(ctx, model.AuthorFilter{SortBy: "family_name", Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, []string{"Rothfuss"}, familyNames(authors))

	authors, total, err = repo.GetAll(ctx, model.AuthorFilter{Search: "BO", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []string{"Billings", "Bova"}, familyNames(authors))

	// escaped wildcards match literally
	authors, _, err = repo.GetAll(ctx, model.AuthorFilter{Search: `\%`, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestMemoryRepository_UpdateVersioning(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, mustAuthor(t, "Jane", "Austen", ""))
	require.NoError(t, err)

	repo.now = func() time.Time { return created.CreatedAt.Add(time.Hour) }

	change := *created
	change.FamilyName = "Austin"
	updated, err := repo.Update(ctx, &change, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = repo.Update(ctx, &change, 0)
	assert.ErrorIs(t, err, model.ErrVersionMismatch)

	change.ID = uuid.New()
	_, err = repo.Update(ctx, &change, 1)
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := seedMemory(t)
	ctx := context.Background()
	authors, _, err := repo.GetAll(ctx, model.AuthorFilter{Limit: 10})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, authors[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, authors[0].ID), model.ErrAuthorNotFound)

	missing := uuid.New()
	deleted, errs, err := repo.BulkDelete(ctx, []uuid.UUID{authors[1].ID, missing})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	require.Len(t, errs, 1)
	assert.Equal(t, missing, errs[0].ID)
	assert.Equal(t, 3, repo.Count())

	exists, err := repo.ExistsByID(ctx, authors[1].ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
