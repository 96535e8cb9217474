package placement

import (
	"sort"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

const (
	activityListLimit     = 20
	neverAppliedListLimit = 50
)

// GlobalInput bundles the sources of a cross-company aggregation. A nil
// Matcher resolves names against Roster without memoization.
type GlobalInput struct {
	Roster   []models.Student
	Ledger   []models.PlacementRecord
	Matrices []models.RoundMatrix
	Matcher  Matcher
}

type placedDetail struct {
	companyID string
	role      string
	pkg       string
}

type stageSets struct {
	reached        map[string]struct{}
	passed         map[string]struct{}
	studentReached map[string]struct{}
	studentPassed  map[string]struct{}
}

func newStageSets() *stageSets {
	return &stageSets{
		reached:        make(map[string]struct{}),
		passed:         make(map[string]struct{}),
		studentReached: make(map[string]struct{}),
		studentPassed:  make(map[string]struct{}),
	}
}

type classTally struct {
	applied      map[string]struct{}
	placed       map[string]struct{}
	applications int
}

type companyTally struct {
	id      string
	name    string
	applied map[string]struct{}
	placed  []models.PlacedStudent
	listed  map[string]struct{}
}

type rosterMatcher []models.Student

func (r rosterMatcher) Resolve(query string) (models.Student, bool) {
	return Resolve(query, r)
}

// PlacedKeys returns the student keys found in the ledger. The first set holds
// every listed name regardless of status, the second only names on Completed rows.
func PlacedKeys(ledger []models.PlacementRecord, m Matcher) (map[string]struct{}, map[string]struct{}) {
	anyStatus := make(map[string]struct{})
	completed := make(map[string]struct{})
	for _, row := range ledger {
		done := IsCompleted(row.Status)
		for _, name := range SplitNames(row.StudentNames) {
			key, _, _ := StudentKey(m, name)
			if key == "" {
				continue
			}
			anyStatus[key] = struct{}{}
			if done {
				completed[key] = struct{}{}
			}
		}
	}
	return anyStatus, completed
}

// BuildGlobalStats aggregates every round matrix into unique-student
// statistics. Students are identified through the matcher, so the same person
// counts once however many companies they applied to. Students listed in the
// ledger are treated as placed and kept out of the active pipeline.
func BuildGlobalStats(in GlobalInput) models.GlobalStats {
	m := in.Matcher
	if m == nil {
		m = rosterMatcher(in.Roster)
	}

	placedAny, placedCompleted := PlacedKeys(in.Ledger, m)
	details := make(map[string]placedDetail)
	for _, row := range in.Ledger {
		for _, name := range SplitNames(row.StudentNames) {
			key, _, _ := StudentKey(m, name)
			if _, ok := details[key]; ok || key == "" {
				continue
			}
			details[key] = placedDetail{companyID: row.CompanyID, role: row.Role, pkg: row.Package}
		}
	}

	rosterByKey := make(map[string]models.Student, len(in.Roster))
	for _, s := range in.Roster {
		if key := Normalize(s.Name); key != "" {
			if _, ok := rosterByKey[key]; !ok {
				rosterByKey[key] = s
			}
		}
	}

	applied := make(map[string]struct{})
	appCount := make(map[string]int)
	var appOrder []string
	activeApps := make(map[string]int)

	classes := make(map[string]*classTally, len(ClassLabels))
	for _, label := range ClassLabels {
		classes[label] = &classTally{applied: make(map[string]struct{}), placed: make(map[string]struct{})}
	}

	stages := make(map[string]*stageSets)
	var stageOrder []string
	var companies []*companyTally
	var skipped []models.SkippedSource

	for _, matrix := range in.Matrices {
		layout, err := ParseLayout(matrix)
		if err != nil {
			skipped = append(skipped, skippedFrom(matrix, err))
			continue
		}
		for _, stage := range layout.Stages {
			if _, ok := stages[stage]; !ok {
				stages[stage] = newStageSets()
				stageOrder = append(stageOrder, stage)
			}
		}

		company := &companyTally{
			id:      matrix.CompanyID,
			name:    matrix.CompanyName,
			applied: make(map[string]struct{}),
			listed:  make(map[string]struct{}),
		}
		if company.name == "" {
			company.name = matrix.CompanyID
		}
		companies = append(companies, company)

		for _, row := range matrix.Rows {
			raw := cell(row, layout.NameCol)
			if !usableName(raw) {
				continue
			}
			key, student, found := StudentKey(m, raw)
			if _, dup := company.applied[key]; dup {
				continue
			}
			p := rowProgress(layout, row)
			if !p.Applied {
				continue
			}
			company.applied[key] = struct{}{}

			_, isPlaced := placedAny[key]
			if _, ok := applied[key]; !ok {
				applied[key] = struct{}{}
				appOrder = append(appOrder, key)
			}
			appCount[key]++
			if !isPlaced {
				activeApps[key]++
			}

			class := ClassUnknown
			if found {
				class = student.Class
			}
			if tally, ok := classes[class]; ok {
				tally.applied[key] = struct{}{}
				tally.applications++
				if isPlaced {
					tally.placed[key] = struct{}{}
				}
			}

			appKey := key + "|" + matrix.CompanyID
			for _, step := range p.Progression {
				sets := stages[step.Stage]
				sets.reached[appKey] = struct{}{}
				sets.studentReached[key] = struct{}{}
				if step.Passed {
					sets.passed[appKey] = struct{}{}
					sets.studentPassed[key] = struct{}{}
				}
			}

			if d, ok := details[key]; ok && isPlaced && d.companyID == matrix.CompanyID {
				if _, listed := company.listed[key]; !listed {
					company.listed[key] = struct{}{}
					ps := models.PlacedStudent{Name: raw, Role: d.role, Package: d.pkg}
					if found {
						ps.Name, ps.RegNo = student.Name, student.RegNo
					}
					company.placed = append(company.placed, ps)
				}
			}
		}
	}

	stats := models.GlobalStats{SkippedSources: skipped}

	totalApps := 0
	for _, n := range appCount {
		totalApps += n
	}
	stats.Overall = models.OverallStats{
		TotalStudents:   len(in.Roster),
		TotalApplied:    len(applied),
		PlacedAnyStatus: len(placedAny),
		PlacedCompleted: len(placedCompleted),
		PlacementRate:   percent(len(placedAny), len(in.Roster)),
		ApplicationRate: percent(len(applied), len(in.Roster)),
		SelectionRate:   percent(len(placedAny), len(applied)),
	}
	if len(appCount) > 0 {
		stats.Overall.AvgApplicationsPerStudent = round2(float64(totalApps) / float64(len(appCount)))
	}

	stats.Funnel = make([]models.FunnelStage, 0, len(stageOrder))
	stats.RoundPassRates = make([]models.RoundPassRate, 0, len(stageOrder))
	for _, stage := range stageOrder {
		sets := stages[stage]
		reached, passed := len(sets.reached), len(sets.passed)
		stats.Funnel = append(stats.Funnel, models.FunnelStage{
			Stage:                 stage,
			Reached:               reached,
			Passed:                passed,
			PassRate:              percent(passed, reached),
			UniqueStudentsReached: len(sets.studentReached),
			UniqueStudentsPassed:  len(sets.studentPassed),
		})
		stats.RoundPassRates = append(stats.RoundPassRates, models.RoundPassRate{
			Round:    stage,
			Passed:   passed,
			Total:    reached,
			PassRate: percent(passed, reached),
		})
	}

	stats.CompanyStats = make([]models.CompanyApplicationStats, 0, len(companies))
	for _, c := range companies {
		placed := c.placed
		if placed == nil {
			placed = []models.PlacedStudent{}
		}
		stats.CompanyStats = append(stats.CompanyStats, models.CompanyApplicationStats{
			CompanyID:      c.id,
			CompanyName:    c.name,
			TotalApplied:   len(c.applied),
			TotalPlaced:    len(placed),
			PlacementRate:  percent(len(placed), len(c.applied)),
			PlacedStudents: placed,
		})
	}
	sort.SliceStable(stats.CompanyStats, func(i, j int) bool {
		return stats.CompanyStats[i].TotalApplied > stats.CompanyStats[j].TotalApplied
	})

	stats.ClassStats = make([]models.ClassApplicationStats, 0, len(ClassLabels))
	for _, label := range ClassLabels {
		t := classes[label]
		stats.ClassStats = append(stats.ClassStats, models.ClassApplicationStats{
			Class:         label,
			Applied:       len(t.applied),
			Placed:        len(t.placed),
			Applications:  t.applications,
			PlacementRate: percent(len(t.placed), len(t.applied)),
		})
	}

	stats.StudentActivity = activitySummary(in.Roster, rosterByKey, appOrder, appCount, placedAny, applied)
	stats.StudentActivity.TotalActiveApplicants = len(activeApps)
	return stats
}

func activitySummary(
	roster []models.Student,
	rosterByKey map[string]models.Student,
	appOrder []string,
	appCount map[string]int,
	placed, applied map[string]struct{},
) models.ActivitySummary {
	active := make([]models.StudentActivity, 0, len(appOrder))
	for _, key := range appOrder {
		if _, ok := placed[key]; ok {
			continue
		}
		entry := models.StudentActivity{Name: key, Class: ClassUnknown, Applications: appCount[key]}
		if s, ok := rosterByKey[key]; ok {
			entry.Name, entry.RegNo, entry.Class = s.Name, s.RegNo, s.Class
		}
		active = append(active, entry)
	}

	most := make([]models.StudentActivity, len(active))
	copy(most, active)
	sort.SliceStable(most, func(i, j int) bool { return most[i].Applications > most[j].Applications })
	least := make([]models.StudentActivity, len(active))
	copy(least, active)
	sort.SliceStable(least, func(i, j int) bool { return least[i].Applications < least[j].Applications })

	summary := models.ActivitySummary{
		MostActiveStudents:   head(most, activityListLimit),
		LeastActiveStudents:  head(least, activityListLimit),
		NeverAppliedStudents: []models.Student{},
	}
	seen := make(map[string]struct{})
	for _, s := range roster {
		key := Normalize(s.Name)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := applied[key]; ok {
			continue
		}
		if _, ok := placed[key]; ok {
			continue
		}
		summary.TotalNeverApplied++
		if len(summary.NeverAppliedStudents) < neverAppliedListLimit {
			summary.NeverAppliedStudents = append(summary.NeverAppliedStudents, s)
		}
	}
	return summary
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
