package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

const matrixExt = ".csv"

// MatrixRepository loads per-company round matrices from <dir>/<company_id>.csv.
type MatrixRepository struct {
	dir      string
	observer SourceObserver
	logger   *zap.Logger
}

// NewMatrixRepository constructs a MatrixRepository.
func NewMatrixRepository(dir string, observer SourceObserver, logger *zap.Logger) *MatrixRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatrixRepository{dir: dir, observer: observer, logger: logger}
}

// List loads every matrix in the directory ordered by company id. Company
// names are taken from names when present. Files that cannot be read are
// reported as skipped rather than failing the whole load; a missing directory
// means no company has round data yet.
func (r *MatrixRepository) List(ctx context.Context, names map[string]string) ([]models.RoundMatrix, []models.SkippedSource, error) {
	defer observe(r.observer, "round_matrices", time.Now())

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.RoundMatrix{}, nil, nil
		}
		return nil, nil, unavailable("analysis directory", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), matrixExt) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)

	matrices := make([]models.RoundMatrix, 0, len(ids))
	var skipped []models.SkippedSource
	for _, file := range ids {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		id := strings.TrimSpace(strings.TrimSuffix(file, filepath.Ext(file)))
		m, err := r.read(filepath.Join(r.dir, file), id, names[id])
		if err != nil {
			r.logger.Warn("round matrix skipped", zap.String("source", file), zap.Error(err))
			skipped = append(skipped, models.SkippedSource{Source: file, Reason: err.Error()})
			continue
		}
		matrices = append(matrices, m)
	}
	return matrices, skipped, nil
}

// Get loads one company's matrix.
func (r *MatrixRepository) Get(ctx context.Context, companyID, companyName string) (models.RoundMatrix, error) {
	defer observe(r.observer, "round_matrix", time.Now())
	if err := ctx.Err(); err != nil {
		return models.RoundMatrix{}, err
	}
	id := strings.TrimSpace(companyID)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return models.RoundMatrix{}, appErrors.Clone(appErrors.ErrValidation, "invalid company id")
	}
	path := filepath.Join(r.dir, id+matrixExt)
	m, err := r.read(path, id, companyName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.RoundMatrix{}, appErrors.Clone(appErrors.ErrNotFound, "no round data for company")
		}
		return models.RoundMatrix{}, err
	}
	return m, nil
}

func (r *MatrixRepository) read(path, companyID, companyName string) (models.RoundMatrix, error) {
	records, err := readCSV(path)
	if err != nil {
		return models.RoundMatrix{}, err
	}
	if len(records) == 0 {
		return models.RoundMatrix{}, appErrors.Clone(appErrors.ErrMalformedSource, "empty round matrix")
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([][]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	if companyName == "" {
		companyName = companyID
	}
	return models.RoundMatrix{
		CompanyID:   companyID,
		CompanyName: companyName,
		Source:      filepath.Base(path),
		Headers:     headers,
		Rows:        rows,
	}, nil
}
