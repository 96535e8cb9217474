package models

// Student is one roster entry. It is immutable once loaded.
type Student struct {
	SerialNo int    `json:"sl_no"`
	Name     string `json:"name"`
	RegNo    string `json:"reg_no"`
	Class    string `json:"class"`
}

// PlacementRecord is one ledger row.
type PlacementRecord struct {
	RecordID          int    `db:"record_id" json:"record_id"`
	CompanyID         string `db:"company_id" json:"company_id"`
	CompanyName       string `db:"company_name" json:"company_name"`
	CampusType        string `db:"campus_type" json:"campus_type"`
	RecruiterCode     string `db:"pr_assigned" json:"pr_assigned"`
	RecruiterName     string `db:"pr_name" json:"pr_name"`
	PlacementOrigin   string `db:"placement_origin" json:"placement_origin"`
	Status            string `db:"status" json:"status"`
	StudentsPlaced    string `db:"noof_students_placed" json:"noof_students_placed"`
	Role              string `db:"role" json:"role"`
	Package           string `db:"package" json:"package"`
	StudentNames      string `db:"student_names" json:"student_names"`
	ClassDistribution string `db:"class_distribution" json:"class_distribution"`
}

// CompanyRecord is the collapsed view of every ledger row sharing a company id.
type CompanyRecord struct {
	CompanyID       string `json:"company_id"`
	CompanyName     string `json:"company_name"`
	Status          string `json:"status"`
	CampusType      string `json:"campus_type"`
	PlacementOrigin string `json:"placement_origin"`
	RecruiterCode   string `json:"pr_assigned"`
	RecruiterName   string `json:"pr_name"`
	Role            string `json:"role"`
	Package         string `json:"package"`
	StudentNames    string `json:"student_names"`
}

// RoundMatrix is the per-company students x rounds sheet. Headers keeps the
// original column order; every row is aligned with Headers.
type RoundMatrix struct {
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	Source      string     `json:"source"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
}

// SkippedSource notes a source left out of an aggregation.
type SkippedSource struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}
