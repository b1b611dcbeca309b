package model

import (
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/vi"
)

const DefaultLocale = "en"

var (
	defaultTranslator = en.New()

	translators = map[string]func() locales.Translator{
		"en":    en.New,
		"en_gb": en_GB.New,
		"fr":    fr.New,
		"de":    de.New,
		"vi":    vi.New,
	}
)

// DefaultTranslator is the "en" translator used by the locale-less accessors.
func DefaultTranslator() locales.Translator {
	return defaultTranslator
}

// Translator resolves a locale name such as "en-GB" or "fr". Unknown names
// fall back to DefaultLocale.
func Translator(locale string) locales.Translator {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "-", "_"))
	if newFn, ok := translators[key]; ok {
		return newFn()
	}
	return defaultTranslator
}

// SupportedLocale reports whether Translator knows the locale.
func SupportedLocale(locale string) bool {
	_, ok := translators[strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "-", "_"))]
	return ok
}

func formatMedium(tr locales.Translator, d *time.Time) string {
	if d == nil {
		return ""
	}
	if tr == nil {
		tr = defaultTranslator
	}
	return tr.FmtDateMedium(*d)
}

func formatISO(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}
