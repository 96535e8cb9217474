package models

import "time"

// ReportType enumerates exportable datasets.
type ReportType string

const (
	ReportTypeCompanies ReportType = "companies"
	ReportTypeStudents  ReportType = "students"
	ReportTypeFunnel    ReportType = "funnel"
)

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportRequest asks for one export.
type ReportRequest struct {
	Type   ReportType   `json:"type" validate:"required,oneof=companies students funnel"`
	Format ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportResult describes a generated export file.
type ReportResult struct {
	ID        string       `json:"id"`
	Type      ReportType   `json:"type"`
	Format    ReportFormat `json:"format"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
}
