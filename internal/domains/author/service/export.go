package service

import (
	"context"
	"fmt"

	"catalog-backend/internal/domains/author/model"

	"github.com/go-playground/locales"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName = "Authors"
	MaxExportRows   = 1000
)

var exportHeaders = []string{
	"ID",
	"First Name",
	"Family Name",
	"Date of Birth",
	"Date of Death",
	"Lifespan",
	"Version",
	"Created At",
}

func (s *authorService) Export(ctx context.Context, filter model.AuthorFilter, tr locales.Translator) (*excelize.File, error) {
	filter, err := model.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	filter.Search = escapeWildcards(filter.Search)
	filter.Limit = model.MaxPageSize

	var authors []model.Author
	for len(authors) < MaxExportRows {
		page, total, err := s.repo.GetAll(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list authors: %w", err)
		}
		authors = append(authors, page...)
		filter.Offset += len(page)
		if len(page) == 0 || int64(filter.Offset) >= total {
			break
		}
	}
	if len(authors) > MaxExportRows {
		authors = authors[:MaxExportRows]
	}

	f, err := buildAuthorsExcelFile(authors, tr)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildAuthorsExcelFile(authors []model.Author, tr locales.Translator) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastCol, headerStyle)
	}

	for i, a := range authors {
		values := []interface{}{
			a.ID.String(),
			a.FirstName,
			a.FamilyName,
			a.YearMonthDateDoB(),
			a.YearMonthDateDoD(),
			a.LifespanIn(tr),
			a.Version,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
