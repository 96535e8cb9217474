package placement

import (
	"strconv"
	"strings"
)

// ParsePackageLPA extracts the leading figure of a package like "4.5 LPA".
// Values without an LPA suffix or a numeric first token are rejected.
func ParsePackageLPA(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if !strings.Contains(strings.ToUpper(v), "LPA") {
		return 0, false
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, false
	}
	first := strings.TrimSuffix(strings.ToUpper(fields[0]), "LPA")
	f, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AveragePackage averages every parseable package, rounded to two decimals.
func AveragePackage(packages []string) float64 {
	var sum float64
	n := 0
	for _, p := range packages {
		if f, ok := ParsePackageLPA(p); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}
