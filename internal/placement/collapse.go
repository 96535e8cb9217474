package placement

import (
	"sort"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

// Collapse folds ledger rows sharing a company id into one record per company.
// Rows with a blank company id are ignored. Output is ordered by company id.
func Collapse(rows []models.PlacementRecord) []models.CompanyRecord {
	ordered := make([]models.PlacementRecord, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].RecordID < ordered[j].RecordID })

	groups := make(map[string][]models.PlacementRecord)
	for _, row := range ordered {
		id := strings.TrimSpace(row.CompanyID)
		if id == "" {
			continue
		}
		groups[id] = append(groups[id], row)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.CompanyRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, collapseGroup(id, groups[id]))
	}
	return out
}

func collapseGroup(id string, rows []models.PlacementRecord) models.CompanyRecord {
	rec := models.CompanyRecord{CompanyID: id}
	statuses := make([]string, 0, len(rows))
	var roles, packages, names []string
	for _, row := range rows {
		statuses = append(statuses, row.Status)
		setFirst(&rec.CompanyName, row.CompanyName)
		setFirst(&rec.CampusType, row.CampusType)
		setFirst(&rec.PlacementOrigin, row.PlacementOrigin)
		setFirst(&rec.RecruiterCode, row.RecruiterCode)
		setFirst(&rec.RecruiterName, row.RecruiterName)
		roles = append(roles, row.Role)
		packages = append(packages, row.Package)
		names = append(names, SplitNames(row.StudentNames)...)
	}

	rec.Status = CollapseStatus(statuses)
	if rec.CampusType != "" {
		rec.CampusType = CanonicalCampus(rec.CampusType)
	}
	if rec.RecruiterName == "" {
		rec.RecruiterName = RecruiterName(rec.RecruiterCode)
	}
	rec.Role = strings.Join(distinct(roles), ", ")
	rec.Package = strings.Join(distinct(packages), ", ")
	rec.StudentNames = strings.Join(DistinctNames(names), ", ")
	return rec
}

// CollapseStatus applies Completed > On-going > On-Hold > Cancelled over the
// given statuses, falling back to the first non-empty one.
func CollapseStatus(statuses []string) string {
	present := make(map[string]struct{}, len(statuses))
	fallback := ""
	for _, raw := range statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		canonical := CanonicalStatus(raw)
		present[canonical] = struct{}{}
		if fallback == "" {
			fallback = canonical
		}
	}
	for _, status := range statusPrecedence {
		if _, ok := present[status]; ok {
			return status
		}
	}
	return fallback
}

// DistinctNames drops case-insensitive duplicates, keeping first-seen casing and order.
func DistinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func setFirst(dst *string, value string) {
	if *dst != "" {
		return
	}
	*dst = strings.TrimSpace(value)
}
