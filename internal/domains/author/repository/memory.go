package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-backend/internal/domains/author/model"

	"github.com/google/uuid"
)

// MemoryRepository keeps authors in a map. It follows the same ordering,
// search and versioning rules as the Postgres repository and backs tests
// and database-less local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]model.Author
	now     func() time.Time
}

var _ RepositoryInterface = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		authors: make(map[uuid.UUID]model.Author),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	created := m.insert(a)
	return &created, nil
}

func (m *MemoryRepository) CreateMany(ctx context.Context, authors []*model.Author) ([]model.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// validate everything first so a failure inserts nothing
	for _, a := range authors {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}

	out := make([]model.Author, 0, len(authors))
	for _, a := range authors {
		out = append(out, m.insert(a))
	}
	return out, nil
}

// insert must be called with mu held. Any caller-supplied ID is replaced.
func (m *MemoryRepository) insert(a *model.Author) model.Author {
	stored := *a
	stored.ID = uuid.New()
	now := m.now()
	stored.Version = 0
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.DateOfBirth = model.CalendarDate(stored.DateOfBirth)
	stored.DateOfDeath = model.CalendarDate(stored.DateOfDeath)
	m.authors[stored.ID] = stored
	return stored
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	m.mu.RLock()
	matched := make([]model.Author, 0, len(m.authors))
	needle := strings.ToLower(unescapeWildcards(filter.Search))
	for _, a := range m.authors {
		if needle == "" || matchesSearch(a, needle) {
			matched = append(matched, a)
		}
	}
	m.mu.RUnlock()

	desc := strings.EqualFold(filter.Order, "desc")
	sort.Slice(matched, func(i, j int) bool {
		if c := compareBy(filter.SortBy, matched[i], matched[j]); c != 0 {
			if c == nullsLast || c == -nullsLast {
				return c < 0
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return append([]model.Author{}, matched[start:end]...), total, nil
}

func (m *MemoryRepository) Update(ctx context.Context, a *model.Author, currentVersion int) (*model.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.authors[a.ID]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	if stored.Version != currentVersion {
		return nil, model.ErrVersionMismatch
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	stored.FirstName = a.FirstName
	stored.FamilyName = a.FamilyName
	stored.DateOfBirth = model.CalendarDate(a.DateOfBirth)
	stored.DateOfDeath = model.CalendarDate(a.DateOfDeath)
	stored.Version++
	stored.UpdatedAt = m.now()
	m.authors[a.ID] = stored
	return &stored, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authors[id]; !ok {
		return model.ErrAuthorNotFound
	}
	delete(m.authors, id)
	return nil
}

func (m *MemoryRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, []model.BulkError, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	var bulkErrors []model.BulkError
	for _, id := range ids {
		if _, ok := m.authors[id]; !ok {
			bulkErrors = append(bulkErrors, model.BulkError{ID: id, Message: model.ErrAuthorNotFound.Error()})
			continue
		}
		delete(m.authors, id)
		deleted++
	}
	return deleted, bulkErrors, nil
}

func (m *MemoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.authors[id]
	return ok, nil
}

// Count returns the number of stored authors.
func (m *MemoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.authors)
}

func matchesSearch(a model.Author, needle string) bool {
	return strings.Contains(strings.ToLower(a.FirstName), needle) ||
		strings.Contains(strings.ToLower(a.FamilyName), needle) ||
		strings.Contains(strings.ToLower(a.Name()), needle)
}

// unescapeWildcards reverses the ILIKE escaping applied by the service.
func unescapeWildcards(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`).Replace(s)
}

// nullsLast is returned by compareBy when exactly one side has no date;
// absent dates sort last in both directions, as NULLS LAST does.
const nullsLast = 2

func compareBy(column string, a, b model.Author) int {
	switch column {
	case "first_name":
		return strings.Compare(a.FirstName, b.FirstName)
	case "date_of_birth":
		switch {
		case a.DateOfBirth == nil && b.DateOfBirth == nil:
			return 0
		case a.DateOfBirth == nil:
			return nullsLast
		case b.DateOfBirth == nil:
			return -nullsLast
		}
		return a.DateOfBirth.Compare(*b.DateOfBirth)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return strings.Compare(a.FamilyName, b.FamilyName)
	}
}
