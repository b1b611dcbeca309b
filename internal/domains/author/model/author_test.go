package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNewAuthor_JaneAusten(t *testing.T) {
	a, err := NewAuthor("Jane", "Austen", date(1775, time.December, 16), date(1817, time.July, 18))
	require.NoError(t, err)

	assert.Equal(t, "Austen, Jane", a.Name())
	assert.Equal(t, "Dec 16, 1775", a.FormattedDoB())
	assert.Equal(t, "Jul 18, 1817", a.FormattedDoD())
	assert.Equal(t, "1775-12-16", a.YearMonthDateDoB())
	assert.Equal(t, "1817-07-18", a.YearMonthDateDoD())
	assert.Equal(t, "Dec 16, 1775 - Jul 18, 1817", a.Lifespan())
}

func TestNewAuthor_NoDates(t *testing.T) {
	a, err := NewAuthor("Unknown", "Author", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Author, Unknown", a.Name())
	assert.Equal(t, "", a.FormattedDoB())
	assert.Equal(t, "", a.FormattedDoD())
	assert.Equal(t, "", a.YearMonthDateDoB())
	assert.Equal(t, "", a.YearMonthDateDoD())
	assert.Equal(t, "", a.Lifespan())
}

func TestNewAuthor_Validation(t *testing.T) {
	tests := []struct {
		name       string
		first      string
		family     string
		wantFields []string
	}{
		{"missing family name", "Jane", "", []string{"family_name"}},
		{"missing first name", "", "Austen", []string{"first_name"}},
		{"both missing", "", "", []string{"family_name", "first_name"}},
		{"whitespace only", "  ", "\t", []string{"family_name", "first_name"}},
		{"first name too long", strings.Repeat("a", 101), "Austen", []string{"first_name"}},
		{"family name too long", "Jane", strings.Repeat("b", 101), []string{"family_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAuthor(tt.first, tt.family, nil, nil)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantFields, verr.FieldNames())
		})
	}
}

func TestNewAuthor_LengthCountsCharacters(t *testing.T) {
	// 100 two-byte characters is 200 bytes but still within the limit.
	a, err := NewAuthor(strings.Repeat("é", 100), strings.Repeat("ñ", 100), nil, nil)
	require.NoError(t, err)
	assert.Len(t, []rune(a.FirstName), 100)
}

func TestNewAuthor_TrimsNames(t *testing.T) {
	a, err := NewAuthor("  Jane ", " Austen\n", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Austen, Jane", a.Name())
}

func TestNewAuthor_DeathBeforeBirthAllowed(t *testing.T) {
	a, err := NewAuthor("Odd", "Dates", date(1900, time.January, 1), date(1800, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "Jan 1, 1900 - Jan 1, 1800", a.Lifespan())
}

func TestName_MissingPart(t *testing.T) {
	assert.Equal(t, "", Author{FirstName: "Jane"}.Name())
	assert.Equal(t, "", Author{FamilyName: "Smith"}.Name())
	assert.Equal(t, "", Author{}.Name())
}

func TestURL(t *testing.T) {
	id := uuid.MustParse("6f1c1f7e-3e8b-4c55-9a4d-1d2f3c4b5a69")
	a := Author{ID: id}
	assert.Equal(t, "/catalog/author/"+id.String(), a.URL())
}

func TestLifespan_BirthOnly(t *testing.T) {
	a := Author{FirstName: "Ben", FamilyName: "Bova", DateOfBirth: date(1932, time.November, 8)}
	assert.Equal(t, a.FormattedDoB()+" -", a.Lifespan())
	assert.Equal(t, "Nov 8, 1932 -", a.Lifespan())
}

func TestLifespan_DeathOnly(t *testing.T) {
	a := Author{FirstName: "No", FamilyName: "Birth", DateOfDeath: date(2000, time.May, 5)}
	assert.Equal(t, "", a.Lifespan())
	assert.Equal(t, "May 5, 2000", a.FormattedDoD())
}

func TestCalendarDate_KeepsLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(1944, time.June, 6, 23, 30, 0, 0, loc)

	a, err := NewAuthor("Day", "Test", &late, nil)
	require.NoError(t, err)
	assert.Equal(t, "1944-06-06", a.YearMonthDateDoB())
	assert.Equal(t, "Jun 6, 1944", a.FormattedDoB())
	assert.Equal(t, time.UTC, a.DateOfBirth.Location())
}

func TestYearMonthDate_RoundTrip(t *testing.T) {
	for _, s := range []string{"1775-12-16", "0999-01-01", "2024-02-29"} {
		d, err := ParseDate(s)
		require.NoError(t, err)
		a := Author{FirstName: "x", FamilyName: "y", DateOfBirth: CalendarDate(d)}
		assert.Equal(t, s, a.YearMonthDateDoB())
	}
}

func TestYearMonthDate_IndependentOfLocale(t *testing.T) {
	a := Author{DateOfBirth: date(1775, time.December, 16)}
	for _, loc := range []string{"en", "fr", "de", "vi", "en-GB"} {
		_ = a.FormattedDoBIn(Translator(loc))
		assert.Equal(t, "1775-12-16", a.YearMonthDateDoB(), loc)
	}
}

func TestTranslator(t *testing.T) {
	assert.True(t, SupportedLocale("en-GB"))
	assert.True(t, SupportedLocale("FR"))
	assert.False(t, SupportedLocale("xx"))
	assert.Equal(t, DefaultTranslator(), Translator("xx"))
	assert.Equal(t, "en", Translator("en").Locale())
	assert.Equal(t, "fr", Translator("fr").Locale())

	a := Author{DateOfBirth: date(1775, time.December, 16)}
	assert.NotEqual(t, a.FormattedDoBIn(Translator("en")), a.FormattedDoBIn(Translator("fr")))
	assert.Contains(t, a.FormattedDoBIn(Translator("fr")), "1775")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("16/12/1775")
	assert.Error(t, err)

	_, err = ParseDate("1775-02-30")
	assert.Error(t, err)
}
