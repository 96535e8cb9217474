package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// SourceObserver receives timings for flat-file and database loads.
type SourceObserver interface {
	ObserveSourceLoad(label string, duration time.Duration)
}

func observe(o SourceObserver, label string, start time.Time) {
	if o != nil {
		o.ObserveSourceLoad(label, time.Since(start))
	}
}

// readCSV reads every record of a CSV file. Rows may have differing widths.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// columnKey folds header spellings like "Sl .no", "Sl. No" and "slno" together.
func columnKey(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.NewReplacer(" ", "", ".", "", "_", "").Replace(h)
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := columnKey(h)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

func field(row []string, idx map[string]int, column string) string {
	i, ok := idx[columnKey(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func unavailable(source string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, http.StatusServiceUnavailable, fmt.Sprintf("%s not found", source))
	}
	return appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, http.StatusServiceUnavailable, fmt.Sprintf("%s unreadable", source))
}
