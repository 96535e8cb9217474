package placement

import (
	"fmt"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

const (
	sheetHeaderRows = 4
	companyMarker   = "Company Name"
	roundsMarker    = "Number of Rounds"
	sheetNameColumn = "Name of the Student"
	sheetRegColumn  = "Register Number"
	matchTypeExact  = "exact"
	matchTypeFuzzy  = "fuzzy"
)

// ParseAnalysisSheet reads the overall analysis sheet. The first four rows are
// the company marker row, the rounds row, the counts row and the column
// header row; data follows. Company blocks start at every marker cell and run
// until the next marker.
func ParseAnalysisSheet(records [][]string) (models.AnalysisSheet, error) {
	if len(records) < sheetHeaderRows {
		return models.AnalysisSheet{}, appErrors.Clone(appErrors.ErrMalformedSource, "analysis sheet is missing header rows")
	}
	markers, rounds := records[0], records[1]
	width := 0
	for _, r := range records[:sheetHeaderRows] {
		if len(r) > width {
			width = len(r)
		}
	}

	var blocks []models.SheetBlock
	for i, c := range markers {
		if !strings.Contains(c, companyMarker) {
			continue
		}
		if n := len(blocks); n > 0 {
			blocks[n-1].EndCol = i
		}
		blocks = append(blocks, models.SheetBlock{
			CompanyName: stripLabel(c, companyMarker),
			RoundCount:  stripLabel(cell(rounds, i), roundsMarker),
			StartCol:    i,
			EndCol:      width,
		})
	}
	if err := ValidateBlocks(blocks, width); err != nil {
		return models.AnalysisSheet{}, err
	}

	headers := make([]string, len(records[3]))
	for i, h := range records[3] {
		headers[i] = strings.TrimSpace(h)
	}
	return models.AnalysisSheet{
		Blocks:  blocks,
		Headers: headers,
		Counts:  records[2],
		Rows:    records[sheetHeaderRows:],
	}, nil
}

// ValidateBlocks checks that blocks are non-empty, ordered and non-overlapping
// within a sheet of the given width.
func ValidateBlocks(blocks []models.SheetBlock, width int) error {
	if len(blocks) == 0 {
		return appErrors.Clone(appErrors.ErrMalformedSource, "analysis sheet has no company blocks")
	}
	prevEnd := 0
	for _, b := range blocks {
		if b.StartCol < prevEnd || b.EndCol <= b.StartCol || b.EndCol > width {
			return appErrors.Clone(appErrors.ErrMalformedSource,
				fmt.Sprintf("invalid column range %d-%d for %q", b.StartCol, b.EndCol, b.CompanyName))
		}
		prevEnd = b.EndCol
	}
	return nil
}

func stripLabel(raw, label string) string {
	v := strings.TrimSpace(strings.Replace(raw, label, "", 1))
	v = strings.TrimSpace(strings.TrimPrefix(v, ":"))
	return v
}

// analysisFuzzyMatch is the looser rule used for the analysis sheet: both names
// need two or more words and must share min(2, words-1) of the query's words.
func analysisFuzzyMatch(query, name map[string]struct{}) bool {
	if len(query) < 2 || len(name) < 2 {
		return false
	}
	need := len(query) - 1
	if need > 2 {
		need = 2
	}
	return intersectionSize(query, name) >= need
}

// MatchReport reconciles the analysis sheet's student names with the roster.
func MatchReport(sheet models.AnalysisSheet, roster []models.Student) (models.NameMatchReport, error) {
	nameCol, regCol := -1, -1
	for i, h := range sheet.Headers {
		switch {
		case h == sheetNameColumn && nameCol < 0:
			nameCol = i
		case h == sheetRegColumn && regCol < 0:
			regCol = i
		}
	}
	if nameCol < 0 {
		for i, h := range sheet.Headers {
			if IsNameColumn(h) {
				nameCol = i
				break
			}
		}
	}
	if nameCol < 0 {
		return models.NameMatchReport{}, appErrors.Clone(appErrors.ErrMalformedSource, "analysis sheet has no student name column")
	}

	byName := make(map[string]models.Student, len(roster))
	for _, s := range roster {
		if key := Normalize(s.Name); key != "" {
			if _, ok := byName[key]; !ok {
				byName[key] = s
			}
		}
	}

	report := models.NameMatchReport{
		Matched:      []models.NameMatch{},
		NotMatched:   []models.UnmatchedName{},
		OnlyInRoster: []models.Student{},
		Blocks:       sheet.Blocks,
	}
	covered := make(map[string]struct{})
	total := 0
	for _, row := range sheet.Rows {
		name := cell(row, nameCol)
		if !usableName(name) {
			continue
		}
		total++
		reg := cell(row, regCol)
		key := Normalize(name)

		student, ok := byName[key]
		matchType := matchTypeExact
		if !ok {
			q := Tokens(key)
			for _, s := range roster {
				if analysisFuzzyMatch(q, Tokens(s.Name)) {
					student, ok, matchType = s, true, matchTypeFuzzy
					break
				}
			}
		}
		if !ok {
			report.NotMatched = append(report.NotMatched, models.UnmatchedName{AnalysisName: name, AnalysisRegNo: reg})
			continue
		}
		covered[Normalize(student.Name)] = struct{}{}
		report.Matched = append(report.Matched, models.NameMatch{
			AnalysisName:  name,
			RosterName:    student.Name,
			AnalysisRegNo: reg,
			RosterRegNo:   student.RegNo,
			Class:         student.Class,
			MatchType:     matchType,
		})
	}

	for _, s := range roster {
		if _, ok := covered[Normalize(s.Name)]; !ok {
			report.OnlyInRoster = append(report.OnlyInRoster, s)
		}
	}

	report.Stats = models.NameMatchStats{
		TotalInAnalysis: total,
		TotalInRoster:   len(roster),
		Matched:         len(report.Matched),
		NotMatched:      len(report.NotMatched),
		OnlyInRoster:    len(report.OnlyInRoster),
		MatchPercentage: percent(len(report.Matched), total),
	}
	return report, nil
}
