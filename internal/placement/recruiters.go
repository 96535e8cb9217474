package placement

import (
	"sort"
	"strings"
)

// recruiterNames is the fixed placement-representative code table.
var recruiterNames = map[string]string{
	"PR01": "PARICHOY NANDI",
	"PR02": "SULEKHA K R",
	"PR03": "KEZYA STEFFYN S",
	"PR04": "SAMDENNIS M",
	"PR05": "ANSON THOMAS",
	"PR06": "JAIBY MARIYA JOSEPH",
	"PR07": "JESVIN K JUSTIN",
	"PR08": "NITISH CHURIWALA",
	"PR09": "VIDYA SHREE B V",
	"PR10": "KISHAN KUMAR",
	"PR11": "KUSUMA H K",
	"PR12": "MARIA BOBY",
}

// Recruiter is one entry of the code table.
type Recruiter struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RecruiterName looks up the recruiter name for a code, returning "" when unknown.
func RecruiterName(code string) string {
	return recruiterNames[strings.TrimSpace(code)]
}

// Recruiters returns the code table ordered by code.
func Recruiters() []Recruiter {
	out := make([]Recruiter, 0, len(recruiterNames))
	for code, name := range recruiterNames {
		out = append(out, Recruiter{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Class labels derived from the roster serial number.
const (
	ClassMCAA    = "MCA A"
	ClassMCAB    = "MCA B"
	ClassMScAIML = "MSc AIML"
	ClassUnknown = "Unknown"
)

// ClassLabels lists the known classes in display order.
var ClassLabels = []string{ClassMCAA, ClassMCAB, ClassMScAIML}

// ClassForSerial maps a roster serial number onto its class section.
func ClassForSerial(serial int) string {
	switch {
	case serial >= 1 && serial <= 59:
		return ClassMCAA
	case serial >= 60 && serial <= 119:
		return ClassMCAB
	case serial >= 120 && serial <= 176:
		return ClassMScAIML
	default:
		return ClassUnknown
	}
}
