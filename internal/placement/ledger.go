package placement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

const companyIDPrefix = "CMP"

// NextRecordID returns one past the highest record id. Ids of deleted rows are
// never handed out again as long as a higher id survives.
func NextRecordID(ledger []models.PlacementRecord) int {
	highest := 0
	for _, row := range ledger {
		if row.RecordID > highest {
			highest = row.RecordID
		}
	}
	return highest + 1
}

// CompanyIDFor reuses the id of a company whose name matches case-insensitively,
// otherwise allocates CMP<n> after the highest numeric CMP id.
func CompanyIDFor(ledger []models.PlacementRecord, companyName string) string {
	want := strings.ToUpper(strings.TrimSpace(companyName))
	highest := 0
	for _, row := range ledger {
		id := strings.TrimSpace(row.CompanyID)
		if want != "" && id != "" && strings.ToUpper(strings.TrimSpace(row.CompanyName)) == want {
			return id
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(id, companyIDPrefix)); err == nil && strings.HasPrefix(id, companyIDPrefix) && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%02d", companyIDPrefix, highest+1)
}

// ClassDistribution lists the class of every resolvable name in a
// comma-joined student_names field.
func ClassDistribution(studentNames string, m Matcher) string {
	if m == nil {
		return ""
	}
	var classes []string
	for _, name := range SplitNames(studentNames) {
		if s, ok := m.Resolve(name); ok && s.Class != "" {
			classes = append(classes, s.Class)
		}
	}
	return strings.Join(classes, ", ")
}

// RecordIDsWithStatus returns the ids of rows for companyID whose status
// canonicalises to status, skipping the row with id exclude.
func RecordIDsWithStatus(ledger []models.PlacementRecord, companyID, status string, exclude int) []int {
	id := strings.TrimSpace(companyID)
	var out []int
	for _, row := range ledger {
		if row.RecordID == exclude || strings.TrimSpace(row.CompanyID) != id {
			continue
		}
		if CanonicalStatus(row.Status) == status {
			out = append(out, row.RecordID)
		}
	}
	return out
}

// FormatIDs joins record ids for notices.
func FormatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
