package models

import "time"

// StageStat is one stage of a company funnel. ConversionRate is the share of
// this stage's passers that also passed the next stage.
type StageStat struct {
	Stage          string  `json:"stage"`
	Reached        int     `json:"reached"`
	Passed         int     `json:"passed"`
	ConversionRate float64 `json:"conversion_rate"`
}

// StageConversion describes movement between two consecutive stages.
type StageConversion struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	FromCount int     `json:"from_count"`
	ToCount   int     `json:"to_count"`
	Rate      float64 `json:"rate"`
}

// StageProgress is a single cell of a student's walk through the rounds.
type StageProgress struct {
	Stage  string `json:"stage"`
	Index  int    `json:"index"`
	Passed bool   `json:"passed"`
}

// StudentProgression summarises one student's row in a round matrix.
type StudentProgression struct {
	Name            string          `json:"name"`
	RegNo           string          `json:"reg_no"`
	Applied         bool            `json:"applied"`
	Progression     []StageProgress `json:"progression"`
	StagesPassed    int             `json:"stages_passed"`
	TotalStages     int             `json:"total_stages"`
	LastPassedStage string          `json:"last_passed_stage,omitempty"`
	FailedAtStage   string          `json:"failed_at_stage,omitempty"`
	ReachedFinal    bool            `json:"reached_final"`
	FinalStatus     string          `json:"final_status"`
}

// CompanyFunnel is the FunnelRecord of one company.
type CompanyFunnel struct {
	CompanyID     string               `json:"company_id"`
	CompanyName   string               `json:"company_name"`
	Stages        []string             `json:"stages"`
	StageStats    []StageStat          `json:"stage_stats"`
	Conversions   []StageConversion    `json:"conversions"`
	TotalApplied  int                  `json:"total_applied"`
	TotalSelected int                  `json:"total_selected"`
	Students      []StudentProgression `json:"students"`
}

// OverallStats holds the headline numbers of the global aggregation.
// PlacedAnyStatus counts every name present in the ledger regardless of status;
// PlacedCompleted only counts names on Completed rows.
type OverallStats struct {
	TotalStudents             int     `json:"total_students"`
	TotalApplied              int     `json:"total_applied"`
	PlacedAnyStatus           int     `json:"total_placed"`
	PlacedCompleted           int     `json:"total_placed_completed"`
	PlacementRate             float64 `json:"placement_rate"`
	ApplicationRate           float64 `json:"application_rate"`
	SelectionRate             float64 `json:"selection_rate"`
	AvgApplicationsPerStudent float64 `json:"avg_applications_per_student"`
}

// FunnelStage is one stage of the aggregated funnel across companies.
type FunnelStage struct {
	Stage                 string  `json:"stage"`
	Reached               int     `json:"reached"`
	Passed                int     `json:"passed"`
	PassRate              float64 `json:"pass_rate"`
	UniqueStudentsReached int     `json:"unique_students_reached"`
	UniqueStudentsPassed  int     `json:"unique_students_passed"`
}

// RoundPassRate is the pass rate of a round name across companies.
type RoundPassRate struct {
	Round    string  `json:"round"`
	Passed   int     `json:"passed"`
	Total    int     `json:"total"`
	PassRate float64 `json:"pass_rate"`
}

// PlacedStudent is a student placed through a given company.
type PlacedStudent struct {
	Name    string `json:"name"`
	RegNo   string `json:"reg_no"`
	Role    string `json:"role"`
	Package string `json:"package"`
}

// CompanyApplicationStats summarises applications to one company.
type CompanyApplicationStats struct {
	CompanyID      string          `json:"company_id"`
	CompanyName    string          `json:"company_name"`
	TotalApplied   int             `json:"total_applied"`
	TotalPlaced    int             `json:"total_placed"`
	PlacementRate  float64         `json:"placement_rate"`
	PlacedStudents []PlacedStudent `json:"placed_students"`
}

// ClassApplicationStats summarises applications for one class section.
type ClassApplicationStats struct {
	Class         string  `json:"class"`
	Applied       int     `json:"applied"`
	Placed        int     `json:"placed"`
	Applications  int     `json:"applications"`
	PlacementRate float64 `json:"placement_rate"`
}

// StudentActivity ranks a student by the number of companies applied to.
type StudentActivity struct {
	Name         string `json:"name"`
	RegNo        string `json:"reg_no"`
	Class        string `json:"class"`
	Applications int    `json:"applications"`
}

// ActivitySummary captures who applies most, least and not at all.
type ActivitySummary struct {
	TotalNeverApplied     int               `json:"total_never_applied"`
	TotalActiveApplicants int               `json:"total_active_applicants"`
	MostActiveStudents    []StudentActivity `json:"most_active_students"`
	LeastActiveStudents   []StudentActivity `json:"least_active_students"`
	NeverAppliedStudents  []Student         `json:"never_applied_students"`
}

// GlobalStats is the cross-company aggregation.
type GlobalStats struct {
	Overall         OverallStats              `json:"overall"`
	Funnel          []FunnelStage             `json:"funnel"`
	RoundPassRates  []RoundPassRate           `json:"round_pass_rates"`
	CompanyStats    []CompanyApplicationStats `json:"company_stats"`
	ClassStats      []ClassApplicationStats   `json:"class_stats"`
	StudentActivity ActivitySummary           `json:"student_activity"`
	SkippedSources  []SkippedSource           `json:"skipped_sources,omitempty"`
}

// CompanyApplication is one entry in a student's application history.
type CompanyApplication struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	StudentProgression
}

// CompanyRef is a lightweight company reference.
type CompanyRef struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
}

// HistoryStats summarises a student's application history.
type HistoryStats struct {
	TotalApplications       int     `json:"total_applications"`
	TotalSelected           int     `json:"total_selected"`
	TotalReachedFinal       int     `json:"total_reached_final"`
	FailedAtFinal           int     `json:"failed_at_final"`
	TotalCompaniesAvailable int     `json:"total_companies_available"`
	CompaniesNotApplied     int     `json:"companies_not_applied_count"`
	AvgStagesReached        float64 `json:"avg_stages_reached"`
	SelectionRate           float64 `json:"selection_rate"`
	FinalRoundFailureRate   float64 `json:"final_round_failure_rate"`
}

// StudentHistory is the complete application history of one student.
type StudentHistory struct {
	Student             Student              `json:"student_info"`
	Applications        []CompanyApplication `json:"application_history"`
	CompaniesNotApplied []CompanyRef         `json:"companies_not_applied"`
	Statistics          HistoryStats         `json:"statistics"`
	FailurePatterns     map[string]int       `json:"failure_patterns"`
}

// StudentAnalysisRow is one line of the all-students analysis.
type StudentAnalysisRow struct {
	Name  string `json:"name"`
	RegNo string `json:"reg_no"`
	Class string `json:"class"`
	HistoryStats
}

// AllStudentsAnalysis ranks every roster student by application behaviour.
type AllStudentsAnalysis struct {
	AllStudents       []StudentAnalysisRow `json:"all_students"`
	LeastApplications []StudentAnalysisRow `json:"least_applications"`
	MostFinalFailures []StudentAnalysisRow `json:"most_final_failures"`
	NeverApplied      []StudentAnalysisRow `json:"never_applied"`
	TotalStudents     int                  `json:"total_students"`
}

// StudentPerformance aggregates a student's progress across companies.
type StudentPerformance struct {
	Name              string               `json:"name"`
	RegNo             string               `json:"reg_no"`
	Class             string               `json:"class"`
	Companies         []CompanyApplication `json:"companies"`
	TotalApplications int                  `json:"total_applications"`
	TotalSelected     int                  `json:"total_selected"`
	AvgStagesReached  float64              `json:"avg_stages_reached"`
	MaxStagesReached  int                  `json:"max_stages_reached"`
}

// NameMatch is one reconciled analysis-sheet name.
type NameMatch struct {
	AnalysisName  string `json:"analysis_name"`
	RosterName    string `json:"full_list_name"`
	AnalysisRegNo string `json:"reg_no_analysis"`
	RosterRegNo   string `json:"reg_no_full_list"`
	Class         string `json:"class"`
	MatchType     string `json:"match_type"`
}

// UnmatchedName is an analysis-sheet name with no roster counterpart.
type UnmatchedName struct {
	AnalysisName  string `json:"analysis_name"`
	AnalysisRegNo string `json:"reg_no_analysis"`
}

// NameMatchStats summarises a reconciliation run.
type NameMatchStats struct {
	TotalInAnalysis int     `json:"total_in_analysis"`
	TotalInRoster   int     `json:"total_in_full_list"`
	Matched         int     `json:"matched_count"`
	NotMatched      int     `json:"not_matched_count"`
	OnlyInRoster    int     `json:"only_in_full_list_count"`
	MatchPercentage float64 `json:"match_percentage"`
}

// NameMatchReport reconciles the overall analysis sheet against the roster.
type NameMatchReport struct {
	Matched      []NameMatch     `json:"matched"`
	NotMatched   []UnmatchedName `json:"not_matched"`
	OnlyInRoster []Student       `json:"only_in_full_list"`
	Stats        NameMatchStats  `json:"stats"`
	Blocks       []SheetBlock    `json:"companies"`
}

// SheetBlock is one company's column range in the overall analysis sheet.
type SheetBlock struct {
	CompanyName string `json:"name"`
	RoundCount  string `json:"rounds"`
	StartCol    int    `json:"start_col"`
	EndCol      int    `json:"end_col"`
}

// AnalysisSheet is the parsed overall analysis sheet.
type AnalysisSheet struct {
	Blocks  []SheetBlock `json:"companies"`
	Headers []string     `json:"headers"`
	Counts  []string     `json:"counts"`
	Rows    [][]string   `json:"rows"`
}

// SystemMetrics represents system level analytics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio               float64   `json:"cache_hit_ratio"`
	CacheHits                   uint64    `json:"cache_hits"`
	CacheMisses                 uint64    `json:"cache_misses"`
	RequestsTotal               uint64    `json:"requests_total"`
	AverageRequestDurationMs    float64   `json:"average_request_duration_ms"`
	SourceLoadCount             uint64    `json:"source_load_count"`
	AverageSourceLoadDurationMs float64   `json:"average_source_load_duration_ms"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generated_at"`
}

// CompanyFunnels lists every company funnel with the sources that were skipped.
type CompanyFunnels struct {
	Funnels        []CompanyFunnel `json:"funnels"`
	SkippedSources []SkippedSource `json:"skipped_sources"`
}

// PerformanceReport lists per-student performance across companies.
type PerformanceReport struct {
	Students       []StudentPerformance `json:"students"`
	SkippedSources []SkippedSource      `json:"skipped_sources"`
}
