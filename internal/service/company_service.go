package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// CompanyService serves the company level views of the ledger.
type CompanyService struct {
	roster rosterProvider
	ledger ledgerReader
	cache  *CacheService
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(roster rosterProvider, ledger ledgerReader, cache *CacheService) *CompanyService {
	return &CompanyService{roster: roster, ledger: ledger, cache: cache}
}

// Overview returns the companies page payload.
func (s *CompanyService) Overview(ctx context.Context) (models.CompaniesOverview, bool, error) {
	return cached(ctx, s.cache, cacheKeyCompanies, func(ctx context.Context) (models.CompaniesOverview, error) {
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return models.CompaniesOverview{}, err
		}
		return placement.CompaniesOverview(ledger), nil
	})
}

// Collapsed returns one record per company.
func (s *CompanyService) Collapsed(ctx context.Context) ([]models.CompanyRecord, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	return placement.Collapse(ledger), nil
}

// Ongoing lists companies that still have open drives.
func (s *CompanyService) Ongoing(ctx context.Context) ([]models.CompanyRecordGroup, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	return placement.OngoingCompanies(ledger), nil
}

// Stats resolves every student listed for a company.
func (s *CompanyService) Stats(ctx context.Context, companyID string) (*models.CompanyStats, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.roster.Matcher(ctx)
	if err != nil {
		return nil, err
	}
	stats, ok := placement.CompanyStatistics(ledger, companyID, m)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("company %q not found", companyID))
	}
	return &stats, nil
}
