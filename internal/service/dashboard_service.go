package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
)

// DashboardService composes the landing page, student listings and the
// recruiter dashboard from the roster and the ledger.
type DashboardService struct {
	roster rosterProvider
	ledger ledgerReader
	cache  *CacheService
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(roster rosterProvider, ledger ledgerReader, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{roster: roster, ledger: ledger, cache: cache, logger: logger}
}

// Summary returns the dashboard numbers and whether they came from cache.
func (s *DashboardService) Summary(ctx context.Context) (models.DashboardSummary, bool, error) {
	return cached(ctx, s.cache, cacheKeyDashboard, func(ctx context.Context) (models.DashboardSummary, error) {
		students, m, ledger, err := s.load(ctx)
		if err != nil {
			return models.DashboardSummary{}, err
		}
		return placement.Dashboard(students, ledger, m), nil
	})
}

// Students lists the roster with placement status.
func (s *DashboardService) Students(ctx context.Context) ([]models.StudentListItem, bool, error) {
	return cached(ctx, s.cache, cacheKeyStudentsList, func(ctx context.Context) ([]models.StudentListItem, error) {
		students, m, ledger, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return placement.StudentList(students, ledger, m), nil
	})
}

// Search finds students by name or registration number.
func (s *DashboardService) Search(ctx context.Context, q string) ([]models.StudentSearchResult, error) {
	students, m, ledger, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return placement.SearchStudents(students, ledger, m, q), nil
}

// Recruiters returns the per-representative summaries.
func (s *DashboardService) Recruiters(ctx context.Context) ([]models.RecruiterSummary, bool, error) {
	return cached(ctx, s.cache, cacheKeyRecruiters, func(ctx context.Context) ([]models.RecruiterSummary, error) {
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return nil, err
		}
		return placement.RecruiterSummaries(ledger), nil
	})
}

func (s *DashboardService) load(ctx context.Context) ([]models.Student, placement.Matcher, []models.PlacementRecord, error) {
	students, err := s.roster.Students(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := s.roster.Matcher(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return students, m, ledger, nil
}
