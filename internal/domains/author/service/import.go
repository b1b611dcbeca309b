package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalog-backend/internal/domains/author/model"

	"github.com/rs/zerolog/log"
)

var importColumns = []string{"first_name", "family_name", "date_of_birth", "date_of_death"}

// Import validates every row before inserting any; a single bad row
// rejects the whole file.
func (s *authorService) Import(ctx context.Context, src io.Reader) (*model.ImportResult, error) {
	log.Info().Msg("Starting author import")

	// PHASE 1: parse
	rows, err := parseCSV(src)
	if err != nil {
		return &model.ImportResult{
			Success: false,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: err.Error()},
			},
		}, nil
	}

	totalRows := len(rows)
	log.Info().Int("total_rows", totalRows).Msg("CSV parsed successfully")

	if totalRows > model.MaxImportRows {
		return &model.ImportResult{
			Success:   false,
			TotalRows: totalRows,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: fmt.Sprintf("%v: %d rows, maximum is %d", model.ErrImportTooLarge, totalRows, model.MaxImportRows)},
			},
		}, nil
	}

	// PHASE 2: validate everything, insert nothing
	authors, validationErrors, failedRows := validateRows(rows)
	if len(validationErrors) > 0 {
		log.Warn().
			Int("error_count", len(validationErrors)).
			Int("failed_rows", failedRows).
			Msg("Import validation failed")

		return &model.ImportResult{
			Success:    false,
			TotalRows:  totalRows,
			FailedRows: failedRows,
			Errors:     validationErrors,
		}, nil
	}

	// PHASE 3: one transaction
	created, err := s.repo.CreateMany(ctx, authors)
	if err != nil {
		return nil, fmt.Errorf("failed to import authors: %w", err)
	}

	log.Info().
		Int("success_count", len(created)).
		Msg("Author import completed successfully")

	return &model.ImportResult{
		Success:     true,
		TotalRows:   totalRows,
		SuccessRows: len(created),
		Created:     created,
	}, nil
}

func parseCSV(src io.Reader) ([]model.ImportRow, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV file is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := buildColumnIndexMap(header)
	for _, col := range importColumns[:2] {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var rows []model.ImportRow
	for rowNum := 2; ; rowNum++ { // header is row 1
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}

		getCol := func(name string) string {
			if idx, ok := colMap[name]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		rows = append(rows, model.ImportRow{
			Row:         rowNum,
			FirstName:   getCol("first_name"),
			FamilyName:  getCol("family_name"),
			DateOfBirth: getCol("date_of_birth"),
			DateOfDeath: getCol("date_of_death"),
		})

		// stop early, the size check only needs to know we are over
		if len(rows) > model.MaxImportRows {
			break
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty (no data rows)")
	}
	return rows, nil
}

func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff") // Excel BOM
		colMap[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return colMap
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func validateRows(rows []model.ImportRow) ([]*model.Author, []model.ImportValidationError, int) {
	authors := make([]*model.Author, 0, len(rows))
	var errs []model.ImportValidationError
	failed := 0

	for _, row := range rows {
		author, err := row.ToRequest().ToEntity()
		if err == nil {
			authors = append(authors, author)
			continue
		}

		failed++
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: "row", Error: err.Error()})
			continue
		}
		fields := verr.Fields()
		for _, field := range verr.FieldNames() {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: field, Error: fields[field]})
		}
	}
	return authors, errs, failed
}
