package seed

import (
	"fmt"
	"io"
	"os"

	"catalog-backend/internal/domains/author/model"

	"gopkg.in/yaml.v3"
)

// File is the layout of an author fixture file.
type File struct {
	Authors []Entry `yaml:"authors"`
}

type Entry struct {
	FirstName   string `yaml:"first_name"`
	FamilyName  string `yaml:"family_name"`
	DateOfBirth string `yaml:"date_of_birth"`
	DateOfDeath string `yaml:"date_of_death"`
}

// Loader reads author fixtures from a YAML file
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

func (l *Loader) Load() ([]*model.Author, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes and validates a fixture document. Every entry goes through
// the same validation as the create endpoint; the first invalid entry
// fails the whole file.
func Parse(r io.Reader) ([]*model.Author, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("fixture file is empty")
		}
		return nil, fmt.Errorf("failed to parse fixture yaml: %w", err)
	}

	authors := make([]*model.Author, 0, len(file.Authors))
	for i, e := range file.Authors {
		req := model.ImportRow{
			FirstName:   e.FirstName,
			FamilyName:  e.FamilyName,
			DateOfBirth: e.DateOfBirth,
			DateOfDeath: e.DateOfDeath,
		}.ToRequest()

		a, err := req.ToEntity()
		if err != nil {
			return nil, fmt.Errorf("author #%d (%s %s): %w", i+1, e.FirstName, e.FamilyName, err)
		}
		authors = append(authors, a)
	}
	return authors, nil
}
