package models

// DashboardSummary is the landing page payload.
type DashboardSummary struct {
	TotalStudents  int            `json:"total_students"`
	TotalPlaced    int            `json:"total_placed"`
	TotalCompanies int            `json:"total_companies"`
	AvgPackage     float64        `json:"avg_package"`
	ClassCounts    map[string]int `json:"class_counts"`
	RecruiterStats map[string]int `json:"pr_stats"`
	TopCompanies   []CompanyCount `json:"top_companies"`
	CampusStats    map[string]int `json:"campus_stats"`
	OriginStats    map[string]int `json:"origin_stats"`
}

// CompanyCount pairs a company with the number of listed students.
type CompanyCount struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Students    int    `json:"students"`
}

// StudentListItem is one row of the students page.
type StudentListItem struct {
	Student
	Status  string `json:"status"`
	Company string `json:"company"`
	Role    string `json:"role"`
	Package string `json:"package"`
}

// StudentSearchResult is one search hit.
type StudentSearchResult struct {
	Name     string `json:"name"`
	RegNo    string `json:"reg_no"`
	Class    string `json:"class"`
	IsPlaced bool   `json:"is_placed"`
}

// CompanyOverviewItem is a collapsed company with its placed student count.
type CompanyOverviewItem struct {
	CompanyRecord
	TotalStudentsPlaced int `json:"total_students_placed"`
}

// CompanyRecordGroup lists every ledger row of one company.
type CompanyRecordGroup struct {
	CompanyID           string            `json:"company_id"`
	CompanyName         string            `json:"company_name"`
	CampusType          string            `json:"campus_type"`
	RecruiterCode       string            `json:"pr_assigned"`
	RecruiterName       string            `json:"pr_name"`
	PlacementOrigin     string            `json:"placement_origin"`
	Status              string            `json:"status,omitempty"`
	TotalStudentsPlaced int               `json:"total_students_placed"`
	Records             []PlacementRecord `json:"records"`
}

// CampusBreakdown summarises the collapsed companies of one campus type.
type CampusBreakdown struct {
	Total             int                       `json:"total"`
	StatusCounts      map[string]int            `json:"status_stats"`
	StatusOrigin      map[string]map[string]int `json:"status_origin,omitempty"`
	CompletedByOrigin map[string]int            `json:"completed_by_origin,omitempty"`
	OriginCounts      map[string]int            `json:"origin_stats"`
	Companies         []CompanyRecord           `json:"companies"`
}

// CompaniesOverview is the companies page payload.
type CompaniesOverview struct {
	CompanyCount int                   `json:"company_count"`
	Companies    []CompanyOverviewItem `json:"company_overview"`
	CompanyWise  []CompanyRecordGroup  `json:"company_wise_records"`
	OnCampus     CampusBreakdown       `json:"on_campus"`
	OffCampus    CampusBreakdown       `json:"off_campus"`
}

// CompanyStudent is a student listed for a company, resolved against the roster when possible.
type CompanyStudent struct {
	Name    string `json:"name"`
	RegNo   string `json:"reg_no"`
	Class   string `json:"class"`
	Role    string `json:"role"`
	Package string `json:"package"`
}

// CompanyStats details the students listed for one company.
type CompanyStats struct {
	CompanyID         string           `json:"company_id"`
	CompanyName       string           `json:"company_name"`
	TotalStudents     int              `json:"total_students"`
	Students          []CompanyStudent `json:"students"`
	ClassDistribution map[string]int   `json:"class_distribution"`
	TotalDrives       int              `json:"total_drives"`
}

// RecruiterCompany is a company handled by a placement representative.
type RecruiterCompany struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// RecruiterSummary aggregates the drives of one placement representative.
type RecruiterSummary struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Drives         int                `json:"drives"`
	CompaniesCount int                `json:"companies_count"`
	Students       int                `json:"students"`
	AvgPackage     float64            `json:"avg_package"`
	Companies      []RecruiterCompany `json:"companies"`
	StatusCounts   map[string]int     `json:"status_counts"`
}

// PlacementRecordInput is the payload for creating or editing a ledger row.
type PlacementRecordInput struct {
	CompanyID       string `json:"company_id" validate:"omitempty,max=32"`
	CompanyName     string `json:"company_name" validate:"required,max=200"`
	CampusType      string `json:"campus_type" validate:"omitempty,max=50"`
	RecruiterCode   string `json:"pr_assigned" validate:"omitempty,max=10"`
	PlacementOrigin string `json:"placement_origin" validate:"omitempty,max=50"`
	Status          string `json:"status" validate:"required,max=50"`
	StudentsPlaced  string `json:"noof_students_placed" validate:"omitempty,max=10"`
	Role            string `json:"role" validate:"omitempty,max=200"`
	Package         string `json:"package" validate:"omitempty,max=50"`
	StudentNames    string `json:"student_names"`
}

// LedgerMutationResult returns the stored row with any advisory notices.
type LedgerMutationResult struct {
	Record  PlacementRecord `json:"record"`
	Notices []string        `json:"notices,omitempty"`
}
