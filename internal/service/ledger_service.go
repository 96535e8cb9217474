package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// Ledger mutation labels used for metrics and logs.
const (
	ledgerOpCreate = "create"
	ledgerOpUpdate = "update"
	ledgerOpDelete = "delete"
)

// LedgerService implements create, read, update and delete on ledger rows.
// Every mutation rewrites the whole store and clears cached statistics.
type LedgerService struct {
	store     LedgerStore
	roster    rosterProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(store LedgerStore, roster rosterProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{store: store, roster: roster, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every ledger row in record id order.
func (s *LedgerService) List(ctx context.Context) ([]models.PlacementRecord, error) {
	rows, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RecordID < rows[j].RecordID })
	return rows, nil
}

// Get returns a single row.
func (s *LedgerService) Get(ctx context.Context, recordID int) (*models.PlacementRecord, error) {
	rows, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfRecord(rows, recordID)
	if idx < 0 {
		return nil, recordNotFound(recordID)
	}
	return &rows[idx], nil
}

// Create appends a row. The company id is taken from the input, reused from
// an existing row with the same company name, or newly allocated.
func (s *LedgerService) Create(ctx context.Context, input models.PlacementRecordInput) (*models.LedgerMutationResult, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.classDistribution(ctx, input.StudentNames)
	if err != nil {
		return nil, err
	}

	companyID := strings.TrimSpace(input.CompanyID)
	if companyID == "" {
		companyID = placement.CompanyIDFor(rows, input.CompanyName)
	}
	record := applyInput(models.PlacementRecord{
		RecordID:  placement.NextRecordID(rows),
		CompanyID: companyID,
	}, input, classes)

	var notices []string
	if placement.IsCompleted(record.Status) {
		if ids := placement.RecordIDsWithStatus(rows, companyID, placement.StatusOngoing, 0); len(ids) > 0 {
			notices = append(notices, fmt.Sprintf(
				"company %s already has On-going record(s) (ID: %s); edit the existing record to change its status instead of adding a new one",
				companyID, placement.FormatIDs(ids)))
		}
	}

	if err := s.persist(ctx, append(rows, record), ledgerOpCreate, record.RecordID); err != nil {
		return nil, err
	}
	return &models.LedgerMutationResult{Record: record, Notices: notices}, nil
}

// Update replaces the editable fields of a row. The company id never changes.
func (s *LedgerService) Update(ctx context.Context, recordID int, input models.PlacementRecordInput) (*models.LedgerMutationResult, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfRecord(rows, recordID)
	if idx < 0 {
		return nil, recordNotFound(recordID)
	}
	classes, err := s.classDistribution(ctx, input.StudentNames)
	if err != nil {
		return nil, err
	}

	current := rows[idx]
	updated := applyInput(current, input, classes)

	var notices []string
	if placement.IsOngoing(current.Status) && placement.IsCompleted(updated.Status) && strings.TrimSpace(current.CompanyID) != "" {
		if ids := placement.RecordIDsWithStatus(rows, current.CompanyID, placement.StatusCompleted, recordID); len(ids) > 0 {
			notices = append(notices, fmt.Sprintf(
				"company %s already has a Completed record (ID: %s); make sure this update is not a duplicate",
				current.CompanyID, placement.FormatIDs(ids)))
		}
	}

	rows[idx] = updated
	if err := s.persist(ctx, rows, ledgerOpUpdate, recordID); err != nil {
		return nil, err
	}
	return &models.LedgerMutationResult{Record: updated, Notices: notices}, nil
}

// Delete removes a row. Its id is not reused while a higher id exists.
func (s *LedgerService) Delete(ctx context.Context, recordID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOfRecord(rows, recordID)
	if idx < 0 {
		return recordNotFound(recordID)
	}
	remaining := append(rows[:idx:idx], rows[idx+1:]...)
	return s.persist(ctx, remaining, ledgerOpDelete, recordID)
}

func (s *LedgerService) persist(ctx context.Context, rows []models.PlacementRecord, op string, recordID int) error {
	if err := s.store.Save(ctx, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save ledger")
	}
	if err := s.cache.InvalidateStats(ctx); err != nil {
		s.logger.Warn("stats cache not cleared after ledger change", zap.Error(err))
	}
	s.metrics.IncLedgerMutation(op)
	s.logger.Info("ledger updated", zap.String("operation", op), zap.Int("record_id", recordID), zap.Int("rows", len(rows)))
	return nil
}

func (s *LedgerService) classDistribution(ctx context.Context, studentNames string) (string, error) {
	if strings.TrimSpace(studentNames) == "" || s.roster == nil {
		return "", nil
	}
	m, err := s.roster.Matcher(ctx)
	if err != nil {
		return "", err
	}
	return placement.ClassDistribution(studentNames, m), nil
}

func applyInput(rec models.PlacementRecord, input models.PlacementRecordInput, classes string) models.PlacementRecord {
	status := strings.TrimSpace(input.Status)
	if placement.IsKnownStatus(status) {
		status = placement.CanonicalStatus(status)
	}
	code := strings.TrimSpace(input.RecruiterCode)

	rec.CompanyName = strings.TrimSpace(input.CompanyName)
	rec.CampusType = strings.TrimSpace(input.CampusType)
	rec.RecruiterCode = code
	rec.RecruiterName = placement.RecruiterName(code)
	rec.PlacementOrigin = strings.TrimSpace(input.PlacementOrigin)
	rec.Status = status
	rec.StudentsPlaced = strings.TrimSpace(input.StudentsPlaced)
	rec.Role = strings.TrimSpace(input.Role)
	rec.Package = strings.TrimSpace(input.Package)
	rec.StudentNames = strings.Join(placement.SplitNames(input.StudentNames), ", ")
	rec.ClassDistribution = classes
	return rec
}

func indexOfRecord(rows []models.PlacementRecord, recordID int) int {
	for i, row := range rows {
		if row.RecordID == recordID {
			return i
		}
	}
	return -1
}

func recordNotFound(recordID int) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("placement record %d not found", recordID))
}
