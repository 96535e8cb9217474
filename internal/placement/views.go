package placement

import (
	"sort"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

const (
	topCompaniesLimit = 10
	searchLimit       = 10
	searchMinLength   = 2

	statusPlaced    = "Placed"
	statusNotPlaced = "Not Placed"
	unknownLabel    = "Unknown"
	notAvailable    = "N/A"
	placeholder     = "-"
)

// Dashboard computes the landing page numbers. Placed counts every name in the
// ledger whatever its status; company, package, campus, origin and recruiter
// figures use Completed rows only.
func Dashboard(roster []models.Student, ledger []models.PlacementRecord, m Matcher) models.DashboardSummary {
	if m == nil {
		m = rosterMatcher(roster)
	}
	placed, _ := PlacedKeys(ledger, m)

	out := models.DashboardSummary{
		TotalStudents:  len(roster),
		TotalPlaced:    len(placed),
		ClassCounts:    map[string]int{},
		RecruiterStats: map[string]int{},
		CampusStats:    map[string]int{CampusOn: 0, CampusOff: 0},
		OriginStats:    map[string]int{},
	}
	for _, r := range Recruiters() {
		out.RecruiterStats[r.Name] = 0
	}

	companies := make(map[string]struct{})
	var packages []string
	for _, row := range ledger {
		for _, name := range SplitNames(row.StudentNames) {
			if s, ok := m.Resolve(name); ok && s.Class != "" {
				out.ClassCounts[s.Class]++
			}
		}
		if !IsCompleted(row.Status) {
			continue
		}
		if id := strings.TrimSpace(row.CompanyID); id != "" {
			companies[id] = struct{}{}
		}
		packages = append(packages, row.Package)
		if name := RecruiterName(row.RecruiterCode); name != "" {
			out.RecruiterStats[name]++
		}
		if campus := CanonicalCampus(row.CampusType); campus == CampusOn || campus == CampusOff {
			out.CampusStats[campus]++
		}
		if origin := strings.TrimSpace(row.PlacementOrigin); origin != "" {
			out.OriginStats[origin]++
		}
	}
	out.TotalCompanies = len(companies)
	out.AvgPackage = AveragePackage(packages)
	out.TopCompanies = topCompanies(ledger)
	return out
}

func topCompanies(ledger []models.PlacementRecord) []models.CompanyCount {
	names := make(map[string]string)
	for _, rec := range Collapse(ledger) {
		names[rec.CompanyID] = rec.CompanyName
	}
	counts := make(map[string]int)
	for _, row := range ledger {
		id := strings.TrimSpace(row.CompanyID)
		if id == "" {
			continue
		}
		counts[id] += len(SplitNames(row.StudentNames))
	}
	out := make([]models.CompanyCount, 0, len(counts))
	for id, n := range counts {
		name := names[id]
		if name == "" {
			name = id
		}
		out = append(out, models.CompanyCount{CompanyID: id, CompanyName: name, Students: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Students != out[j].Students {
			return out[i].Students > out[j].Students
		}
		return out[i].CompanyID < out[j].CompanyID
	})
	return head(out, topCompaniesLimit)
}

// StudentList returns the roster with each student's first ledger placement.
func StudentList(roster []models.Student, ledger []models.PlacementRecord, m Matcher) []models.StudentListItem {
	if m == nil {
		m = rosterMatcher(roster)
	}
	first := firstPlacements(ledger, m)

	out := make([]models.StudentListItem, 0, len(roster))
	for _, s := range roster {
		item := models.StudentListItem{
			Student: s,
			Status:  statusNotPlaced,
			Company: placeholder,
			Role:    placeholder,
			Package: placeholder,
		}
		if row, ok := first[Normalize(s.Name)]; ok {
			item.Status = statusPlaced
			item.Company = orDefault(row.CompanyName, placeholder)
			item.Role = orDefault(row.Role, placeholder)
			item.Package = orDefault(row.Package, placeholder)
		}
		out = append(out, item)
	}
	return out
}

func firstPlacements(ledger []models.PlacementRecord, m Matcher) map[string]models.PlacementRecord {
	ordered := make([]models.PlacementRecord, len(ledger))
	copy(ordered, ledger)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].RecordID < ordered[j].RecordID })

	first := make(map[string]models.PlacementRecord)
	for _, row := range ordered {
		for _, name := range SplitNames(row.StudentNames) {
			key, _, _ := StudentKey(m, name)
			if _, ok := first[key]; key != "" && !ok {
				first[key] = row
			}
		}
	}
	return first
}

// SearchStudents finds up to ten roster entries whose name or registration
// number contains q. Name hits come before registration number hits. Queries
// shorter than two characters return nothing.
func SearchStudents(roster []models.Student, ledger []models.PlacementRecord, m Matcher, q string) []models.StudentSearchResult {
	query := strings.ToUpper(strings.TrimSpace(q))
	out := []models.StudentSearchResult{}
	if len([]rune(query)) < searchMinLength {
		return out
	}
	if m == nil {
		m = rosterMatcher(roster)
	}
	placed, _ := PlacedKeys(ledger, m)

	var hits []models.Student
	seen := make(map[int]struct{})
	collect := func(match func(models.Student) bool) {
		for i, s := range roster {
			if _, ok := seen[i]; ok || !match(s) {
				continue
			}
			seen[i] = struct{}{}
			hits = append(hits, s)
		}
	}
	collect(func(s models.Student) bool { return strings.Contains(strings.ToUpper(s.Name), query) })
	collect(func(s models.Student) bool { return strings.Contains(strings.ToUpper(s.RegNo), query) })

	for _, s := range head(hits, searchLimit) {
		_, isPlaced := placed[Normalize(s.Name)]
		out = append(out, models.StudentSearchResult{Name: s.Name, RegNo: s.RegNo, Class: s.Class, IsPlaced: isPlaced})
	}
	return out
}

// CompaniesOverview builds the companies page: collapsed companies with
// student counts, every row grouped per company, and on/off campus breakdowns.
// A row is on campus only when its campus type canonicalises to On Campus;
// rows with a blank campus type belong to neither side.
func CompaniesOverview(ledger []models.PlacementRecord) models.CompaniesOverview {
	students := companyStudentCounts(ledger)

	collapsed := Collapse(ledger)
	overview := make([]models.CompanyOverviewItem, 0, len(collapsed))
	for _, rec := range collapsed {
		overview = append(overview, models.CompanyOverviewItem{CompanyRecord: rec, TotalStudentsPlaced: students[rec.CompanyID]})
	}

	var on, off []models.PlacementRecord
	for _, row := range ledger {
		switch {
		case IsOnCampus(row.CampusType):
			on = append(on, row)
		case strings.TrimSpace(row.CampusType) != "":
			off = append(off, row)
		}
	}

	groups := groupRecords(ledger, nil)
	for i := range groups {
		groups[i].TotalStudentsPlaced = students[groups[i].CompanyID]
	}

	return models.CompaniesOverview{
		CompanyCount: len(overview),
		Companies:    overview,
		CompanyWise:  groups,
		OnCampus:     campusBreakdown(Collapse(on), true),
		OffCampus:    campusBreakdown(Collapse(off), false),
	}
}

func companyStudentCounts(ledger []models.PlacementRecord) map[string]int {
	sets := make(map[string]map[string]struct{})
	for _, row := range ledger {
		id := strings.TrimSpace(row.CompanyID)
		if id == "" {
			continue
		}
		for _, name := range SplitNames(row.StudentNames) {
			if sets[id] == nil {
				sets[id] = make(map[string]struct{})
			}
			sets[id][Normalize(name)] = struct{}{}
		}
	}
	counts := make(map[string]int, len(sets))
	for id, set := range sets {
		counts[id] = len(set)
	}
	return counts
}

func campusBreakdown(companies []models.CompanyRecord, detailed bool) models.CampusBreakdown {
	out := models.CampusBreakdown{
		Total:        len(companies),
		StatusCounts: map[string]int{},
		OriginCounts: map[string]int{},
		Companies:    companies,
	}
	if detailed {
		out.StatusOrigin = map[string]map[string]int{}
		out.CompletedByOrigin = map[string]int{}
	}
	for _, c := range companies {
		status := orDefault(c.Status, unknownLabel)
		origin := orDefault(c.PlacementOrigin, unknownLabel)
		out.StatusCounts[status]++
		out.OriginCounts[origin]++
		if !detailed {
			continue
		}
		if out.StatusOrigin[status] == nil {
			out.StatusOrigin[status] = map[string]int{}
		}
		out.StatusOrigin[status][origin]++
		if IsCompleted(c.Status) {
			out.CompletedByOrigin[origin]++
		}
	}
	return out
}

// groupRecords groups rows by company id, keeping rows in record id order.
// Company level fields come from the first row seen. A nil keep accepts every row.
func groupRecords(ledger []models.PlacementRecord, keep func(models.PlacementRecord) bool) []models.CompanyRecordGroup {
	ordered := make([]models.PlacementRecord, len(ledger))
	copy(ordered, ledger)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].RecordID < ordered[j].RecordID })

	index := make(map[string]int)
	var groups []models.CompanyRecordGroup
	for _, row := range ordered {
		id := strings.TrimSpace(row.CompanyID)
		if id == "" || (keep != nil && !keep(row)) {
			continue
		}
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, models.CompanyRecordGroup{
				CompanyID:       id,
				CompanyName:     strings.TrimSpace(row.CompanyName),
				CampusType:      strings.TrimSpace(row.CampusType),
				RecruiterCode:   strings.TrimSpace(row.RecruiterCode),
				RecruiterName:   strings.TrimSpace(row.RecruiterName),
				PlacementOrigin: strings.TrimSpace(row.PlacementOrigin),
				Records:         []models.PlacementRecord{},
			})
		}
		groups[i].Records = append(groups[i].Records, row)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].CompanyID < groups[j].CompanyID })
	if groups == nil {
		groups = []models.CompanyRecordGroup{}
	}
	return groups
}

// OngoingCompanies lists companies with On-going rows. A company with any
// Completed row is finished and left out.
func OngoingCompanies(ledger []models.PlacementRecord) []models.CompanyRecordGroup {
	completed := make(map[string]struct{})
	for _, row := range ledger {
		if IsCompleted(row.Status) {
			completed[strings.TrimSpace(row.CompanyID)] = struct{}{}
		}
	}
	groups := groupRecords(ledger, func(row models.PlacementRecord) bool {
		_, done := completed[strings.TrimSpace(row.CompanyID)]
		return !done && IsOngoing(row.Status)
	})
	for i := range groups {
		groups[i].Status = StatusOngoing
	}
	return groups
}

// CompanyStatistics resolves every student listed for a company against the
// roster. ok is false when the ledger has no row for the company.
func CompanyStatistics(ledger []models.PlacementRecord, companyID string, m Matcher) (models.CompanyStats, bool) {
	id := strings.TrimSpace(companyID)
	var rows []models.PlacementRecord
	for _, row := range ledger {
		if strings.TrimSpace(row.CompanyID) == id {
			rows = append(rows, row)
		}
	}
	if id == "" || len(rows) == 0 {
		return models.CompanyStats{}, false
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RecordID < rows[j].RecordID })

	out := models.CompanyStats{
		CompanyID:         id,
		CompanyName:       strings.TrimSpace(rows[0].CompanyName),
		Students:          []models.CompanyStudent{},
		ClassDistribution: map[string]int{},
		TotalDrives:       len(rows),
	}
	for _, row := range rows {
		role := orDefault(row.Role, notAvailable)
		pkg := orDefault(row.Package, notAvailable)
		for _, name := range SplitNames(row.StudentNames) {
			entry := models.CompanyStudent{Name: name, RegNo: notAvailable, Class: unknownLabel, Role: role, Package: pkg}
			if m != nil {
				if s, ok := m.Resolve(name); ok {
					entry.Name, entry.RegNo, entry.Class = s.Name, s.RegNo, s.Class
					if s.Class != "" {
						out.ClassDistribution[s.Class]++
					}
				}
			}
			out.Students = append(out.Students, entry)
		}
	}
	out.TotalStudents = len(out.Students)
	return out, true
}

// RecruiterSummaries aggregates the ledger per placement representative in
// code order. Average package only considers Completed rows.
func RecruiterSummaries(ledger []models.PlacementRecord) []models.RecruiterSummary {
	recruiters := Recruiters()
	out := make([]models.RecruiterSummary, 0, len(recruiters))
	for _, r := range recruiters {
		var rows []models.PlacementRecord
		for _, row := range ledger {
			if strings.TrimSpace(row.RecruiterCode) == r.Code {
				rows = append(rows, row)
			}
		}

		students := make(map[string]struct{})
		var packages []string
		for _, row := range rows {
			for _, name := range SplitNames(row.StudentNames) {
				students[Normalize(name)] = struct{}{}
			}
			if IsCompleted(row.Status) {
				packages = append(packages, row.Package)
			}
		}

		summary := models.RecruiterSummary{
			Code:         r.Code,
			Name:         r.Name,
			Drives:       len(rows),
			Students:     len(students),
			AvgPackage:   AveragePackage(packages),
			Companies:    []models.RecruiterCompany{},
			StatusCounts: map[string]int{},
		}
		for _, c := range Collapse(rows) {
			status := orDefault(c.Status, unknownLabel)
			summary.StatusCounts[status]++
			summary.Companies = append(summary.Companies, models.RecruiterCompany{
				CompanyID: c.CompanyID,
				Name:      orDefault(c.CompanyName, notAvailable),
				Status:    status,
			})
		}
		summary.CompaniesCount = len(summary.Companies)
		out = append(out, summary)
	}
	return out
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
