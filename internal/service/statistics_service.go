package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// StatisticsService runs the funnel aggregations over the round matrices.
type StatisticsService struct {
	roster   rosterProvider
	ledger   ledgerReader
	matrices matrixSource
	sheet    analysisSheetSource
	cache    *CacheService
	logger   *zap.Logger
}

// StatisticsServiceParams groups constructor dependencies.
type StatisticsServiceParams struct {
	Roster   rosterProvider
	Ledger   ledgerReader
	Matrices matrixSource
	Sheet    analysisSheetSource
	Cache    *CacheService
	Logger   *zap.Logger
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(params StatisticsServiceParams) *StatisticsService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		roster:   params.Roster,
		ledger:   params.Ledger,
		matrices: params.Matrices,
		sheet:    params.Sheet,
		cache:    params.Cache,
		logger:   logger,
	}
}

// Global returns the placement-wide statistics.
func (s *StatisticsService) Global(ctx context.Context) (models.GlobalStats, bool, error) {
	return cached(ctx, s.cache, cacheKeyGlobal, func(ctx context.Context) (models.GlobalStats, error) {
		students, err := s.roster.Students(ctx)
		if err != nil {
			return models.GlobalStats{}, err
		}
		m, err := s.roster.Matcher(ctx)
		if err != nil {
			return models.GlobalStats{}, err
		}
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return models.GlobalStats{}, err
		}
		matrices, skipped, err := s.listMatrices(ctx, ledger)
		if err != nil {
			return models.GlobalStats{}, err
		}
		stats := placement.BuildGlobalStats(placement.GlobalInput{
			Roster:   students,
			Ledger:   ledger,
			Matrices: matrices,
			Matcher:  m,
		})
		stats.SkippedSources = append(skipped, stats.SkippedSources...)
		s.logSkipped(stats.SkippedSources)
		return stats, nil
	})
}

// Funnels returns one funnel per company with round data.
func (s *StatisticsService) Funnels(ctx context.Context) (models.CompanyFunnels, bool, error) {
	return cached(ctx, s.cache, cacheKeyFunnels, func(ctx context.Context) (models.CompanyFunnels, error) {
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return models.CompanyFunnels{}, err
		}
		matrices, skipped, err := s.listMatrices(ctx, ledger)
		if err != nil {
			return models.CompanyFunnels{}, err
		}
		funnels, malformed := placement.BuildCompanyFunnels(matrices)
		skipped = append(skipped, malformed...)
		s.logSkipped(skipped)
		if funnels == nil {
			funnels = []models.CompanyFunnel{}
		}
		if skipped == nil {
			skipped = []models.SkippedSource{}
		}
		return models.CompanyFunnels{Funnels: funnels, SkippedSources: skipped}, nil
	})
}

// CompanyFunnel returns the funnel for one company.
func (s *StatisticsService) CompanyFunnel(ctx context.Context, companyID string) (*models.CompanyFunnel, error) {
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(companyID)
	matrix, err := s.matrices.Get(ctx, id, companyNames(ledger)[id])
	if err != nil {
		return nil, err
	}
	funnel, err := placement.BuildCompanyFunnel(matrix)
	if err != nil {
		return nil, err
	}
	return &funnel, nil
}

// StudentHistory resolves query against the roster and traces the student
// through every company.
func (s *StatisticsService) StudentHistory(ctx context.Context, query string) (*models.StudentHistory, error) {
	if strings.TrimSpace(query) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student name is required")
	}
	m, err := s.roster.Matcher(ctx)
	if err != nil {
		return nil, err
	}
	student, ok := m.Resolve(query)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %q not found", query))
	}
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	matrices, _, err := s.listMatrices(ctx, ledger)
	if err != nil {
		return nil, err
	}
	history := placement.StudentHistory(student, matrices)
	return &history, nil
}

// AllStudents analyses every roster student.
func (s *StatisticsService) AllStudents(ctx context.Context) (models.AllStudentsAnalysis, bool, error) {
	return cached(ctx, s.cache, cacheKeyAllStudents, func(ctx context.Context) (models.AllStudentsAnalysis, error) {
		students, err := s.roster.Students(ctx)
		if err != nil {
			return models.AllStudentsAnalysis{}, err
		}
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return models.AllStudentsAnalysis{}, err
		}
		matrices, _, err := s.listMatrices(ctx, ledger)
		if err != nil {
			return models.AllStudentsAnalysis{}, err
		}
		return placement.AnalyzeAllStudents(students, matrices), nil
	})
}

// Performance groups applications by student across all companies.
func (s *StatisticsService) Performance(ctx context.Context) (models.PerformanceReport, bool, error) {
	return cached(ctx, s.cache, cacheKeyPerformance, func(ctx context.Context) (models.PerformanceReport, error) {
		m, err := s.roster.Matcher(ctx)
		if err != nil {
			return models.PerformanceReport{}, err
		}
		ledger, err := s.ledger.Load(ctx)
		if err != nil {
			return models.PerformanceReport{}, err
		}
		matrices, skipped, err := s.listMatrices(ctx, ledger)
		if err != nil {
			return models.PerformanceReport{}, err
		}
		students, malformed := placement.StudentPerformances(matrices, m)
		skipped = append(skipped, malformed...)
		if skipped == nil {
			skipped = []models.SkippedSource{}
		}
		return models.PerformanceReport{Students: students, SkippedSources: skipped}, nil
	})
}

// NameMatchReport reconciles the overall analysis sheet against the roster.
func (s *StatisticsService) NameMatchReport(ctx context.Context) (*models.NameMatchReport, error) {
	if s.sheet == nil {
		return nil, appErrors.Clone(appErrors.ErrSourceUnavailable, "analysis sheet is not configured")
	}
	students, err := s.roster.Students(ctx)
	if err != nil {
		return nil, err
	}
	sheet, err := s.sheet.Load(ctx)
	if err != nil {
		return nil, err
	}
	report, err := placement.MatchReport(sheet, students)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *StatisticsService) listMatrices(ctx context.Context, ledger []models.PlacementRecord) ([]models.RoundMatrix, []models.SkippedSource, error) {
	matrices, skipped, err := s.matrices.List(ctx, companyNames(ledger))
	if err != nil {
		return nil, nil, err
	}
	return matrices, skipped, nil
}

func (s *StatisticsService) logSkipped(skipped []models.SkippedSource) {
	for _, sk := range skipped {
		s.logger.Warn("source skipped", zap.String("source", sk.Source), zap.String("reason", sk.Reason))
	}
}
