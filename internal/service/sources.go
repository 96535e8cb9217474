package service

import (
	"context"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
)

// LedgerStore persists the placement ledger. Both the CSV file and the
// Postgres table implement it.
type LedgerStore interface {
	Load(ctx context.Context) ([]models.PlacementRecord, error)
	Save(ctx context.Context, rows []models.PlacementRecord) error
}

type ledgerReader interface {
	Load(ctx context.Context) ([]models.PlacementRecord, error)
}

type rosterProvider interface {
	Students(ctx context.Context) ([]models.Student, error)
	Matcher(ctx context.Context) (placement.Matcher, error)
}

type matrixSource interface {
	List(ctx context.Context, names map[string]string) ([]models.RoundMatrix, []models.SkippedSource, error)
	Get(ctx context.Context, companyID, companyName string) (models.RoundMatrix, error)
}

type analysisSheetSource interface {
	Load(ctx context.Context) (models.AnalysisSheet, error)
}

// companyNames maps company ids to their collapsed display names.
func companyNames(ledger []models.PlacementRecord) map[string]string {
	names := make(map[string]string)
	for _, rec := range placement.Collapse(ledger) {
		names[rec.CompanyID] = rec.CompanyName
	}
	return names
}
