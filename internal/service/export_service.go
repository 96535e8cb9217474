package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
	"github.com/noah-isme/placement-cell-api/pkg/export"
	"github.com/noah-isme/placement-cell-api/pkg/storage"
)

type companiesOverviewProvider interface {
	Overview(ctx context.Context) (models.CompaniesOverview, bool, error)
}

type studentListProvider interface {
	Students(ctx context.Context) ([]models.StudentListItem, bool, error)
}

type globalStatsProvider interface {
	Global(ctx context.Context) (models.GlobalStats, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled   bool
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders report datasets to files and hands out signed
// download links.
type ExportService struct {
	companies companiesOverviewProvider
	students  studentListProvider
	stats     globalStatsProvider
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       datasetRenderer
	pdf       datasetRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// ExportServiceParams groups constructor dependencies. Nil renderers default
// to the pkg/export implementations.
type ExportServiceParams struct {
	Companies companiesOverviewProvider
	Students  studentListProvider
	Stats     globalStatsProvider
	Storage   fileStorage
	Signer    *storage.SignedURLSigner
	CSV       datasetRenderer
	PDF       datasetRenderer
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	svc := &ExportService{
		companies: params.Companies,
		students:  params.Students,
		stats:     params.Stats,
		storage:   params.Storage,
		signer:    params.Signer,
		csv:       params.CSV,
		pdf:       params.PDF,
		validator: params.Validator,
		logger:    params.Logger,
		cfg:       cfg,
		now:       time.Now,
	}
	if svc.csv == nil {
		svc.csv = export.NewCSVExporter()
	}
	if svc.pdf == nil {
		svc.pdf = export.NewPDFExporter()
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Generate renders the requested dataset, stores it and returns a signed URL.
func (s *ExportService) Generate(ctx context.Context, req models.ReportRequest) (*models.ReportResult, error) {
	if !s.cfg.Enabled || s.storage == nil || s.signer == nil {
		return nil, appErrors.ErrExportsDisabled
	}
	req.Type = models.ReportType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	req.Format = models.ReportFormat(strings.ToLower(strings.TrimSpace(string(req.Format))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	dataset, err := s.buildDataset(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	renderer := s.csv
	if req.Format == models.ReportFormatPDF {
		renderer = s.pdf
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("%s/%s_%s.%s", req.Type, s.now().UTC().Format("20060102_150405"), id, req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export generated",
		zap.String("id", id),
		zap.String("type", string(req.Type)),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &models.ReportResult{
		ID:        id,
		Type:      req.Type,
		Format:    req.Format,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a download token and returns the stored relative path.
func (s *ExportService) Resolve(token string) (string, error) {
	if !s.cfg.Enabled || s.signer == nil {
		return "", appErrors.ErrExportsDisabled
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return "", appErrors.Clone(appErrors.ErrForbidden, "download link expired")
	case err != nil:
		return "", appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	return relPath, nil
}

// Open returns a handle to a stored export.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	if s.storage == nil {
		return nil, appErrors.ErrExportsDisabled
	}
	f, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return f, nil
}

// Cleanup removes exports older than ttl, or the configured result TTL when
// ttl is not positive.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDataset(ctx context.Context, kind models.ReportType) (export.Dataset, error) {
	switch kind {
	case models.ReportTypeCompanies:
		return s.companiesDataset(ctx)
	case models.ReportTypeStudents:
		return s.studentsDataset(ctx)
	case models.ReportTypeFunnel:
		return s.funnelDataset(ctx)
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export type %s", kind))
	}
}

func (s *ExportService) companiesDataset(ctx context.Context) (export.Dataset, error) {
	overview, _, err := s.companies.Overview(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(overview.Companies))
	for _, c := range overview.Companies {
		rows = append(rows, []string{
			c.CompanyID,
			c.CompanyName,
			c.Status,
			c.CampusType,
			c.PlacementOrigin,
			c.RecruiterName,
			c.Role,
			c.Package,
			strconv.Itoa(c.TotalStudentsPlaced),
		})
	}
	return export.Dataset{
		Title:   "Companies Overview",
		Headers: []string{"Company ID", "Company", "Status", "Campus", "Origin", "PR", "Role", "Package", "Students"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) studentsDataset(ctx context.Context) (export.Dataset, error) {
	students, _, err := s.students.Students(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{
			strconv.Itoa(st.SerialNo),
			st.RegNo,
			st.Name,
			st.Class,
			st.Status,
			st.Company,
			st.Role,
			st.Package,
		})
	}
	return export.Dataset{
		Title:   "Students",
		Headers: []string{"Sl. No", "Reg. No", "Name", "Class", "Status", "Company", "Role", "Package"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) funnelDataset(ctx context.Context) (export.Dataset, error) {
	stats, _, err := s.stats.Global(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(stats.Funnel))
	for _, stage := range stats.Funnel {
		rows = append(rows, []string{
			stage.Stage,
			strconv.Itoa(stage.Reached),
			strconv.Itoa(stage.Passed),
			strconv.FormatFloat(stage.PassRate, 'f', 2, 64),
			strconv.Itoa(stage.UniqueStudentsReached),
			strconv.Itoa(stage.UniqueStudentsPassed),
		})
	}
	return export.Dataset{
		Title:   "Placement Funnel",
		Headers: []string{"Stage", "Reached", "Passed", "Pass Rate (%)", "Unique Reached", "Unique Passed"},
		Rows:    rows,
	}, nil
}
