package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/locales"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxBulkDelete   = 100
	MaxImportRows   = 1000
)

var dateRule = validation.Date(DateLayout).Error("must be a date in YYYY-MM-DD format")

// SortColumns whitelists the columns a list can be ordered by.
var SortColumns = map[string]bool{
	"family_name":   true,
	"first_name":    true,
	"date_of_birth": true,
	"created_at":    true,
	"updated_at":    true,
}

// CreateAuthorRequest - POST /api/v1/authors
type CreateAuthorRequest struct {
	FirstName   string  `json:"first_name"`
	FamilyName  string  `json:"family_name"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	DateOfDeath *string `json:"date_of_death,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateAuthorRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.FamilyName = strings.TrimSpace(r.FamilyName)
	r.DateOfBirth = trimPtr(r.DateOfBirth)
	r.DateOfDeath = trimPtr(r.DateOfDeath)
}

func (r CreateAuthorRequest) Validate() error {
	return NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name must be specified"),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&r.FamilyName,
			validation.Required.Error("family name must be specified"),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&r.DateOfBirth, dateRule),
		validation.Field(&r.DateOfDeath, dateRule),
	))
}

// ToEntity validates the request and converts it to an unsaved Author.
func (r *CreateAuthorRequest) ToEntity() (*Author, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dob, _ := ParseDate(deref(r.DateOfBirth))
	dod, _ := ParseDate(deref(r.DateOfDeath))
	return NewAuthor(r.FirstName, r.FamilyName, dob, dod)
}

// UpdateAuthorRequest - PUT /api/v1/authors/:id
// Nil fields are left untouched. A date is removed with its Clear flag.
type UpdateAuthorRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	FamilyName       *string `json:"family_name,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	DateOfDeath      *string `json:"date_of_death,omitempty"`
	ClearDateOfBirth bool    `json:"clear_date_of_birth,omitempty"`
	ClearDateOfDeath bool    `json:"clear_date_of_death,omitempty"`
	Version          *int    `json:"version"` // Required for conflict detection
}

func (r *UpdateAuthorRequest) Normalize() {
	r.FirstName = trimPtr(r.FirstName)
	r.FamilyName = trimPtr(r.FamilyName)
	r.DateOfBirth = trimPtr(r.DateOfBirth)
	r.DateOfDeath = trimPtr(r.DateOfDeath)
}

func (r UpdateAuthorRequest) Validate() error {
	return NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.NilOrNotEmpty.Error("first name must not be empty"),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&r.FamilyName,
			validation.NilOrNotEmpty.Error("family name must not be empty"),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&r.DateOfBirth,
			dateRule,
			validation.When(r.ClearDateOfBirth, validation.Nil.Error("cannot be set and cleared together")),
		),
		validation.Field(&r.DateOfDeath,
			dateRule,
			validation.When(r.ClearDateOfDeath, validation.Nil.Error("cannot be set and cleared together")),
		),
		validation.Field(&r.Version,
			validation.NotNil.Error("version is required"),
			validation.Min(0),
		),
	))
}

// ApplyToEntity applies the request to a copy of a and returns it.
// The request must already be valid.
func (r *UpdateAuthorRequest) ApplyToEntity(a Author) *Author {
	if r.FirstName != nil {
		a.FirstName = *r.FirstName
	}
	if r.FamilyName != nil {
		a.FamilyName = *r.FamilyName
	}
	if r.ClearDateOfBirth {
		a.DateOfBirth = nil
	} else if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, _ := ParseDate(*r.DateOfBirth)
		a.DateOfBirth = CalendarDate(dob)
	}
	if r.ClearDateOfDeath {
		a.DateOfDeath = nil
	} else if r.DateOfDeath != nil && *r.DateOfDeath != "" {
		dod, _ := ParseDate(*r.DateOfDeath)
		a.DateOfDeath = CalendarDate(dod)
	}
	return &a
}

// AuthorResponse carries the stored fields and every derived accessor.
type AuthorResponse struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	FamilyName       string    `json:"family_name"`
	DateOfBirth      *string   `json:"date_of_birth"`
	DateOfDeath      *string   `json:"date_of_death"`
	Name             string    `json:"name"`
	URL              string    `json:"url"`
	FormattedDoB     string    `json:"formatted_dob"`
	FormattedDoD     string    `json:"formatted_dod"`
	YearMonthDateDoB string    `json:"year_month_date_dob"`
	YearMonthDateDoD string    `json:"year_month_date_dod"`
	Lifespan         string    `json:"lifespan"`
	Version          int       `json:"version"` // For client-side conflict detection
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AuthorListResponse - Paginated list response
type AuthorListResponse struct {
	Data       []AuthorResponse `json:"data"`
	Pagination PaginationMeta   `json:"pagination"`
}

// PaginationMeta - Reusable pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// NewPaginationMeta derives page numbers from an offset/limit window.
func NewPaginationMeta(filter AuthorFilter, total int64) PaginationMeta {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return PaginationMeta{
		CurrentPage: filter.Offset/limit + 1,
		PageSize:    limit,
		TotalItems:  total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}
}

// AuthorFilter - Query parameters for search/filter
type AuthorFilter struct {
	Search string `json:"search" form:"search"`   // Partial match on either name part
	SortBy string `json:"sort_by" form:"sort_by"` // see SortColumns
	Order  string `json:"order" form:"order"`     // asc, desc
	Limit  int    `json:"limit" form:"limit"`
	Offset int    `json:"offset" form:"offset"`
}

// NormalizeFilter applies paging defaults and clamps, and rejects sort
// columns outside SortColumns.
func NormalizeFilter(f AuthorFilter) (AuthorFilter, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	f.Search = strings.TrimSpace(f.Search)
	if r := []rune(f.Search); len(r) > MaxNameLength {
		f.Search = string(r[:MaxNameLength])
	}

	f.SortBy = strings.ToLower(strings.TrimSpace(f.SortBy))
	if f.SortBy == "" {
		f.SortBy = "family_name"
	}
	if !SortColumns[f.SortBy] {
		return f, FieldError("sort_by", "unsupported sort column: "+f.SortBy)
	}

	f.Order = strings.ToLower(strings.TrimSpace(f.Order))
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "asc"
	}
	return f, nil
}

// BulkDeleteRequest - DELETE /api/v1/authors/bulk
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkDeleteResponse - Response with partial success info
type BulkDeleteResponse struct {
	SuccessCount int         `json:"success_count"`
	FailedCount  int         `json:"failed_count"`
	Errors       []BulkError `json:"errors,omitempty"`
}

type BulkError struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// ImportRow is one parsed data row of an author CSV import.
type ImportRow struct {
	Row         int
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
}

// ToRequest converts the row to the same request the JSON API accepts.
func (r ImportRow) ToRequest() *CreateAuthorRequest {
	return &CreateAuthorRequest{
		FirstName:   r.FirstName,
		FamilyName:  r.FamilyName,
		DateOfBirth: optional(r.DateOfBirth),
		DateOfDeath: optional(r.DateOfDeath),
	}
}

type ImportValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
}

type ImportResult struct {
	Success        bool                    `json:"success"`
	TotalRows      int                     `json:"total_rows"`
	SuccessRows    int                     `json:"success_rows"`
	FailedRows     int                     `json:"failed_rows"`
	Errors         []ImportValidationError `json:"errors,omitempty"`
	Created        []Author                `json:"-"`
	CreatedAuthors []AuthorResponse        `json:"created_authors,omitempty"` // filled by the handler
}

// Conversion methods

// ToResponse converts Author entity to AuthorResponse DTO, rendering
// medium dates with tr (DefaultTranslator when nil).
func (a Author) ToResponse(tr locales.Translator) *AuthorResponse {
	if tr == nil {
		tr = DefaultTranslator()
	}
	return &AuthorResponse{
		ID:               a.ID,
		FirstName:        a.FirstName,
		FamilyName:       a.FamilyName,
		DateOfBirth:      optional(a.YearMonthDateDoB()),
		DateOfDeath:      optional(a.YearMonthDateDoD()),
		Name:             a.Name(),
		URL:              a.URL(),
		FormattedDoB:     a.FormattedDoBIn(tr),
		FormattedDoD:     a.FormattedDoDIn(tr),
		YearMonthDateDoB: a.YearMonthDateDoB(),
		YearMonthDateDoD: a.YearMonthDateDoD(),
		Lifespan:         a.LifespanIn(tr),
		Version:          a.Version,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// ToResponses converts a slice of authors.
func ToResponses(authors []Author, tr locales.Translator) []AuthorResponse {
	out := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		out[i] = *a.ToResponse(tr)
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
