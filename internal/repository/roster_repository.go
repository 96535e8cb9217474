package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// Roster columns.
const (
	RosterColumnSerial = "Sl .no"
	RosterColumnRegNo  = "Reg.no"
	RosterColumnName   = "Name"
)

// RosterRepository reads the student roster CSV.
type RosterRepository struct {
	path     string
	observer SourceObserver
}

// NewRosterRepository constructs a RosterRepository.
func NewRosterRepository(path string, observer SourceObserver) *RosterRepository {
	return &RosterRepository{path: path, observer: observer}
}

// Load returns the roster in file order. Classes are derived from the serial number.
func (r *RosterRepository) Load(ctx context.Context) ([]models.Student, error) {
	defer observe(r.observer, "roster", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := readCSV(r.path)
	if err != nil {
		return nil, unavailable("roster", err)
	}
	if len(records) == 0 {
		return []models.Student{}, nil
	}

	idx := headerIndex(records[0])
	if _, ok := idx[columnKey(RosterColumnName)]; !ok {
		return nil, appErrors.Clone(appErrors.ErrMalformedSource, "roster has no Name column")
	}

	students := make([]models.Student, 0, len(records)-1)
	for _, row := range records[1:] {
		name := field(row, idx, RosterColumnName)
		if name == "" {
			continue
		}
		serial := parseSerial(field(row, idx, RosterColumnSerial))
		students = append(students, models.Student{
			SerialNo: serial,
			Name:     name,
			RegNo:    field(row, idx, RosterColumnRegNo),
			Class:    placement.ClassForSerial(serial),
		})
	}
	return students, nil
}

func parseSerial(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
