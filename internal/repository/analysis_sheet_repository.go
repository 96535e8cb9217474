package repository

import (
	"context"
	"time"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
)

// AnalysisSheetRepository reads the overall analysis sheet.
type AnalysisSheetRepository struct {
	path     string
	observer SourceObserver
}

// NewAnalysisSheetRepository constructs an AnalysisSheetRepository.
func NewAnalysisSheetRepository(path string, observer SourceObserver) *AnalysisSheetRepository {
	return &AnalysisSheetRepository{path: path, observer: observer}
}

// Load reads and parses the sheet into company blocks and data rows.
func (r *AnalysisSheetRepository) Load(ctx context.Context) (models.AnalysisSheet, error) {
	defer observe(r.observer, "analysis_sheet", time.Now())
	if err := ctx.Err(); err != nil {
		return models.AnalysisSheet{}, err
	}
	records, err := readCSV(r.path)
	if err != nil {
		return models.AnalysisSheet{}, unavailable("analysis sheet", err)
	}
	return placement.ParseAnalysisSheet(records)
}
