package placement

import (
	"sort"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

// findStudentRow locates the row for a student: exact name, then exact
// register number, then name containment in either direction, checked row by
// row so the first row satisfying any rule wins.
func findStudentRow(layout Layout, rows [][]string, student models.Student) ([]string, bool) {
	name := Normalize(student.Name)
	reg := Normalize(student.RegNo)
	for _, row := range rows {
		rowName := Normalize(cell(row, layout.NameCol))
		if !usableName(rowName) {
			continue
		}
		if rowName == name {
			return row, true
		}
		if layout.HasReg() && reg != "" && Normalize(cell(row, layout.RegCol)) == reg {
			return row, true
		}
		if name != "" && (strings.Contains(rowName, name) || strings.Contains(name, rowName)) {
			return row, true
		}
	}
	return nil, false
}

func sortedMatrices(matrices []models.RoundMatrix) []models.RoundMatrix {
	out := make([]models.RoundMatrix, len(matrices))
	copy(out, matrices)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompanyID < out[j].CompanyID })
	return out
}

// StudentHistory traces one roster student through every company matrix.
// Matrices without a usable layout are left out of the history entirely.
func StudentHistory(student models.Student, matrices []models.RoundMatrix) models.StudentHistory {
	h := models.StudentHistory{
		Student:             student,
		Applications:        []models.CompanyApplication{},
		CompaniesNotApplied: []models.CompanyRef{},
		FailurePatterns:     map[string]int{},
	}

	available := 0
	for _, matrix := range sortedMatrices(matrices) {
		layout, err := ParseLayout(matrix)
		if err != nil {
			continue
		}
		available++
		ref := models.CompanyRef{CompanyID: matrix.CompanyID, CompanyName: matrix.CompanyName}
		if ref.CompanyName == "" {
			ref.CompanyName = matrix.CompanyID
		}

		row, ok := findStudentRow(layout, matrix.Rows, student)
		if !ok {
			h.CompaniesNotApplied = append(h.CompaniesNotApplied, ref)
			continue
		}
		p := rowProgress(layout, row)
		if !p.Applied {
			h.CompaniesNotApplied = append(h.CompaniesNotApplied, ref)
			continue
		}
		h.Applications = append(h.Applications, models.CompanyApplication{
			CompanyID:          ref.CompanyID,
			CompanyName:        ref.CompanyName,
			StudentProgression: p,
		})
		if p.FailedAtStage != "" {
			h.FailurePatterns[p.FailedAtStage]++
		}
	}

	h.Statistics = historyStats(h.Applications)
	h.Statistics.TotalCompaniesAvailable = available
	h.Statistics.CompaniesNotApplied = len(h.CompaniesNotApplied)
	return h
}

func historyStats(apps []models.CompanyApplication) models.HistoryStats {
	stats := models.HistoryStats{TotalApplications: len(apps)}
	passed := 0
	for _, app := range apps {
		passed += app.StagesPassed
		if app.FinalStatus == stageSelected {
			stats.TotalSelected++
		}
		if app.ReachedFinal {
			stats.TotalReachedFinal++
			if app.FinalStatus != stageSelected {
				stats.FailedAtFinal++
			}
		}
	}
	if len(apps) > 0 {
		stats.AvgStagesReached = round2(float64(passed) / float64(len(apps)))
	}
	stats.SelectionRate = percent(stats.TotalSelected, stats.TotalApplications)
	stats.FinalRoundFailureRate = percent(stats.FailedAtFinal, stats.TotalReachedFinal)
	return stats
}

// AnalyzeAllStudents computes a history for every roster student and ranks
// them by application count and final-round failures.
func AnalyzeAllStudents(roster []models.Student, matrices []models.RoundMatrix) models.AllStudentsAnalysis {
	rows := make([]models.StudentAnalysisRow, 0, len(roster))
	for _, s := range roster {
		h := StudentHistory(s, matrices)
		rows = append(rows, models.StudentAnalysisRow{
			Name:         s.Name,
			RegNo:        s.RegNo,
			Class:        s.Class,
			HistoryStats: h.Statistics,
		})
	}

	least := make([]models.StudentAnalysisRow, len(rows))
	copy(least, rows)
	sort.SliceStable(least, func(i, j int) bool { return least[i].TotalApplications < least[j].TotalApplications })

	failures := make([]models.StudentAnalysisRow, 0)
	never := make([]models.StudentAnalysisRow, 0)
	for _, r := range rows {
		if r.FailedAtFinal > 0 {
			failures = append(failures, r)
		}
		if r.TotalApplications == 0 {
			never = append(never, r)
		}
	}
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].FailedAtFinal > failures[j].FailedAtFinal })

	return models.AllStudentsAnalysis{
		AllStudents:       rows,
		LeastApplications: head(least, activityListLimit),
		MostFinalFailures: head(failures, activityListLimit),
		NeverApplied:      never,
		TotalStudents:     len(rows),
	}
}

// StudentPerformances groups every applied row across matrices by student.
// Rows the matcher cannot resolve are grouped under their raw name with class
// Unknown. Students appear in first-seen order.
func StudentPerformances(matrices []models.RoundMatrix, m Matcher) ([]models.StudentPerformance, []models.SkippedSource) {
	byKey := make(map[string]*models.StudentPerformance)
	var order []string
	var skipped []models.SkippedSource

	for _, matrix := range sortedMatrices(matrices) {
		layout, err := ParseLayout(matrix)
		if err != nil {
			skipped = append(skipped, skippedFrom(matrix, err))
			continue
		}
		name := matrix.CompanyName
		if name == "" {
			name = matrix.CompanyID
		}
		for _, row := range matrix.Rows {
			raw := cell(row, layout.NameCol)
			if !usableName(raw) {
				continue
			}
			p := rowProgress(layout, row)
			if !p.Applied {
				continue
			}
			key, student, found := StudentKey(m, raw)
			perf, ok := byKey[key]
			if !ok {
				perf = &models.StudentPerformance{Name: raw, RegNo: p.RegNo, Class: ClassUnknown}
				if found {
					perf.Name, perf.RegNo, perf.Class = student.Name, student.RegNo, student.Class
				}
				byKey[key] = perf
				order = append(order, key)
			}
			perf.Companies = append(perf.Companies, models.CompanyApplication{
				CompanyID:          matrix.CompanyID,
				CompanyName:        name,
				StudentProgression: p,
			})
		}
	}

	out := make([]models.StudentPerformance, 0, len(order))
	for _, key := range order {
		perf := byKey[key]
		passed := 0
		for _, c := range perf.Companies {
			passed += c.StagesPassed
			if c.FinalStatus == stageSelected {
				perf.TotalSelected++
			}
			if c.StagesPassed > perf.MaxStagesReached {
				perf.MaxStagesReached = c.StagesPassed
			}
		}
		perf.TotalApplications = len(perf.Companies)
		if perf.TotalApplications > 0 {
			perf.AvgStagesReached = round2(float64(passed) / float64(perf.TotalApplications))
		}
		out = append(out, *perf)
	}
	return out, skipped
}
