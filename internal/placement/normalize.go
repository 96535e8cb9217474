// Package placement holds the reconciliation and aggregation logic behind the
// placement dashboard: name matching against the roster, collapsing ledger rows
// into company records and folding round matrices into funnels.
package placement

import (
	"strings"
)

// Normalize canonicalises a free-text name or register number for comparison.
// It upper-cases, trims and collapses internal whitespace runs to one space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
}

// Tokens returns the word-set of the normalized value.
func Tokens(raw string) map[string]struct{} {
	fields := strings.Fields(strings.ToUpper(raw))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// SplitNames splits a comma-joined student_names field into trimmed, non-empty names.
func SplitNames(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func isSubset(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
