package repository

import (
	"context"
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// LedgerColumns is the on-disk column order of the placement ledger.
var LedgerColumns = []string{
	"record_id",
	"company_id",
	"company_name",
	"campus_type",
	"pr_assigned",
	"pr_name",
	"placement_origin",
	"status",
	"noof_students_placed",
	"role",
	"package",
	"student_names",
	"class_distribution",
}

// LedgerRepository persists the placement ledger as a CSV file. Every save
// rewrites the whole file.
type LedgerRepository struct {
	path     string
	observer SourceObserver
	logger   *zap.Logger
}

// NewLedgerRepository constructs a LedgerRepository.
func NewLedgerRepository(path string, observer SourceObserver, logger *zap.Logger) *LedgerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerRepository{path: path, observer: observer, logger: logger}
}

// Load reads every ledger row. A missing file is an empty ledger. Rows without
// a usable record_id, and every repeat of an id already seen, are numbered
// after the current maximum and the file is written back so ids stay stable
// and unique.
func (r *LedgerRepository) Load(ctx context.Context) ([]models.PlacementRecord, error) {
	defer observe(r.observer, "ledger", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := readCSV(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.PlacementRecord{}, nil
		}
		return nil, unavailable("ledger", err)
	}
	if len(records) == 0 {
		return []models.PlacementRecord{}, nil
	}

	idx := headerIndex(records[0])
	_, hasID := idx[columnKey("record_id")]

	rows := make([]models.PlacementRecord, 0, len(records)-1)
	maxID := 0
	seen := make(map[int]struct{})
	var pending []int
	duplicates := 0
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := models.PlacementRecord{
			CompanyID:         field(row, idx, "company_id"),
			CompanyName:       field(row, idx, "company_name"),
			CampusType:        field(row, idx, "campus_type"),
			RecruiterCode:     field(row, idx, "pr_assigned"),
			RecruiterName:     field(row, idx, "pr_name"),
			PlacementOrigin:   field(row, idx, "placement_origin"),
			Status:            field(row, idx, "status"),
			StudentsPlaced:    field(row, idx, "noof_students_placed"),
			Role:              field(row, idx, "role"),
			Package:           field(row, idx, "package"),
			StudentNames:      field(row, idx, "student_names"),
			ClassDistribution: field(row, idx, "class_distribution"),
		}
		id, ok := parseRecordID(field(row, idx, "record_id"))
		switch {
		case !ok || !hasID:
			pending = append(pending, len(rows))
		case hasSeen(seen, id):
			duplicates++
			pending = append(pending, len(rows))
		default:
			seen[id] = struct{}{}
			rec.RecordID = id
			if id > maxID {
				maxID = id
			}
		}
		rows = append(rows, rec)
	}

	if len(pending) == 0 {
		return rows, nil
	}
	for _, i := range pending {
		maxID++
		rows[i].RecordID = maxID
	}
	if err := r.Save(ctx, rows); err != nil {
		return nil, err
	}
	r.logger.Info("ledger record ids assigned",
		zap.Int("count", len(pending)),
		zap.Int("duplicates", duplicates),
		zap.String("path", r.path))
	return rows, nil
}

func hasSeen(seen map[int]struct{}, id int) bool {
	_, ok := seen[id]
	return ok
}

// Save rewrites the ledger file with the given rows.
func (r *LedgerRepository) Save(ctx context.Context, rows []models.PlacementRecord) error {
	defer observe(r.observer, "ledger_save", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	out := make([][]string, 0, len(rows))
	for _, rec := range rows {
		out = append(out, []string{
			strconv.Itoa(rec.RecordID),
			rec.CompanyID,
			rec.CompanyName,
			rec.CampusType,
			rec.RecruiterCode,
			rec.RecruiterName,
			rec.PlacementOrigin,
			rec.Status,
			rec.StudentsPlaced,
			rec.Role,
			rec.Package,
			rec.StudentNames,
			rec.ClassDistribution,
		})
	}
	if err := writeCSV(r.path, LedgerColumns, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save ledger")
	}
	return nil
}

// Path returns the backing file path.
func (r *LedgerRepository) Path() string { return r.path }

func parseRecordID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 1 {
		return int(f), true
	}
	return 0, false
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
