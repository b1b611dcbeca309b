package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/locales"
	"github.com/google/uuid"
)

// Constants for validation
const (
	MaxNameLength = 100
	DateLayout    = "2006-01-02"
	URLPrefix     = "/catalog/author/"
)

// Author is a catalog author.
//
// Stored fields are FirstName, FamilyName, DateOfBirth and DateOfDeath.
// Version and the timestamps are owned by the repository. Everything the
// views display (Name, URL, formatted dates, Lifespan) is derived on every
// call and never stored.
type Author struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	FamilyName  string     `json:"family_name" db:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty" db:"date_of_death"`

	// Versioning for Optimistic Locking
	Version int `json:"version" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewAuthor builds an unsaved author. Both name parts are trimmed, required and
// limited to MaxNameLength characters; dates are optional and no ordering
// between them is enforced.
func NewAuthor(firstName, familyName string, dateOfBirth, dateOfDeath *time.Time) (*Author, error) {
	a := &Author{
		FirstName:   strings.TrimSpace(firstName),
		FamilyName:  strings.TrimSpace(familyName),
		DateOfBirth: CalendarDate(dateOfBirth),
		DateOfDeath: CalendarDate(dateOfDeath),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the stored fields. Failures come back as *ValidationError.
func (a Author) Validate() error {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.FirstName,
			validation.Required.Error("first name must be specified"),
			validation.RuneLength(1, MaxNameLength).Error(fmt.Sprintf("first name must be at most %d characters", MaxNameLength)),
		),
		validation.Field(&a.FamilyName,
			validation.Required.Error("family name must be specified"),
			validation.RuneLength(1, MaxNameLength).Error(fmt.Sprintf("family name must be at most %d characters", MaxNameLength)),
		),
	)
	return NewValidationError(err)
}

// Name returns "Family, First", or "" when either part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// URL is the catalog path of the author's detail page. The ID must already
// be assigned.
func (a Author) URL() string {
	return URLPrefix + a.ID.String()
}

func (a Author) FormattedDoB() string { return a.FormattedDoBIn(DefaultTranslator()) }

func (a Author) FormattedDoD() string { return a.FormattedDoDIn(DefaultTranslator()) }

// FormattedDoBIn renders the date of birth in tr's medium date format.
func (a Author) FormattedDoBIn(tr locales.Translator) string {
	return formatMedium(tr, a.DateOfBirth)
}

// FormattedDoDIn renders the date of death in tr's medium date format.
func (a Author) FormattedDoDIn(tr locales.Translator) string {
	return formatMedium(tr, a.DateOfDeath)
}

// YearMonthDateDoB is the ISO 8601 date of birth, e.g. "1775-12-16".
func (a Author) YearMonthDateDoB() string { return formatISO(a.DateOfBirth) }

// YearMonthDateDoD is the ISO 8601 date of death.
func (a Author) YearMonthDateDoD() string { return formatISO(a.DateOfDeath) }

// Lifespan returns "" without a birth date, "DoB -" while the death date
// is unknown and "DoB - DoD" otherwise.
func (a Author) Lifespan() string { return a.LifespanIn(DefaultTranslator()) }

func (a Author) LifespanIn(tr locales.Translator) string {
	if a.DateOfBirth == nil {
		return ""
	}
	if a.DateOfDeath == nil {
		return a.FormattedDoBIn(tr) + " -"
	}
	return a.FormattedDoBIn(tr) + " - " + a.FormattedDoDIn(tr)
}

// CalendarDate drops the clock and zone from t, keeping the calendar day
// as seen in t's own location. The result is midnight UTC.
func CalendarDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// ParseDate parses a YYYY-MM-DD string. Empty input means no date.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
