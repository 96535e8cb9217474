package placement

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

// fixedIdentifierColumns are header variants that never denote a round.
var fixedIdentifierColumns = map[string]struct{}{
	"Register Number":     {},
	"Name":                {},
	"Name of the Student": {},
	"Reg.no":              {},
	"Reg No":              {},
}

// Layout locates identifier and stage columns inside a round matrix.
type Layout struct {
	NameCol   int
	RegCol    int
	Stages    []string
	StageCols []int
}

// HasReg reports whether a register number column was found.
func (l Layout) HasReg() bool { return l.RegCol >= 0 }

// IsNameColumn reports whether a header denotes the student name.
func IsNameColumn(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.Contains(h, "name") && strings.Contains(h, "student")
}

// IsRegColumn reports whether a header denotes the register number.
func IsRegColumn(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.Contains(h, "register") && strings.Contains(h, "number")
}

// IsIdentifierColumn reports whether a header is an identifier rather than a round.
func IsIdentifierColumn(header string) bool {
	h := strings.TrimSpace(header)
	if _, ok := fixedIdentifierColumns[h]; ok {
		return true
	}
	return IsNameColumn(h) || IsRegColumn(h)
}

// StageColumns returns every non-identifier header in sheet order.
func StageColumns(headers []string) []string {
	stages := make([]string, 0, len(headers))
	for _, h := range headers {
		if IsIdentifierColumn(h) {
			continue
		}
		stages = append(stages, strings.TrimSpace(h))
	}
	return stages
}

// ParseLayout detects the identifier and stage columns of a matrix. A matrix
// without a student-name column or without any stage is malformed.
func ParseLayout(m models.RoundMatrix) (Layout, error) {
	layout := Layout{NameCol: -1, RegCol: -1}
	for i, h := range m.Headers {
		switch {
		case IsNameColumn(h):
			if layout.NameCol < 0 {
				layout.NameCol = i
			}
		case IsRegColumn(h):
			if layout.RegCol < 0 {
				layout.RegCol = i
			}
		}
	}
	if layout.NameCol < 0 {
		for i, h := range m.Headers {
			if strings.EqualFold(strings.TrimSpace(h), "name") {
				layout.NameCol = i
				break
			}
		}
	}
	if layout.NameCol < 0 {
		return Layout{}, appErrors.Clone(appErrors.ErrMalformedSource, "missing student name column")
	}

	for i, h := range m.Headers {
		if IsIdentifierColumn(h) {
			continue
		}
		layout.Stages = append(layout.Stages, strings.TrimSpace(h))
		layout.StageCols = append(layout.StageCols, i)
	}
	if len(layout.Stages) == 0 {
		return Layout{}, appErrors.Clone(appErrors.ErrMalformedSource, "no round columns")
	}
	return layout, nil
}

// Truthy interprets a matrix cell. Numeric values count when their integer
// part is 1; anything else must be the literal "1". Blank and NaN are false.
func Truthy(cell string) bool {
	v := strings.TrimSpace(cell)
	if v == "" {
		return false
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		return int64(f) == 1
	}
	return v == "1"
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// round2 rounds to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns num/den*100 rounded to two decimals, 0 when den is 0.
func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return round2(float64(num) / float64(den) * 100)
}
