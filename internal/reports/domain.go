package reports

import (
	"errors"
	"time"
)

// Status captures the lifecycle state of a report job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ReportType enumerates the supported extraction routines.
type ReportType string

const (
	TypeSalesSummary    ReportType = "sales_summary"
	TypeMonthlyReport   ReportType = "monthly_report"
	TypeProductAnalysis ReportType = "product_analysis"
)

// ValidReportType reports whether t is a known report type.
func ValidReportType(t ReportType) bool {
	switch t {
	case TypeSalesSummary, TypeMonthlyReport, TypeProductAnalysis:
		return true
	}
	return false
}

// Format enumerates the supported output formats. PDF rendering uses a
// tabular layout; CSV and XLSX emit the raw dataset.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

// ErrInvalidStatus signals a rejected status transition, typically a
// second delivery attempting to run an already claimed job.
var ErrInvalidStatus = errors.New("reports: invalid status transition")

// Job is a persisted report generation request and its result metadata.
// Once completed or failed it is immutable except for download_count.
type Job struct {
	ID            int64      `json:"id"`
	Name          string     `json:"report_name"`
	Type          ReportType `json:"report_type"`
	Format        Format     `json:"format"`
	RequestedBy   int64      `json:"requested_by"`
	RangeStart    time.Time  `json:"date_range_start"`
	RangeEnd      time.Time  `json:"date_range_end"`
	Filters       Filters    `json:"filters"`
	Status        Status     `json:"status"`
	FilePath      string     `json:"-"`
	FileSize      int64      `json:"file_size"`
	RowCount      int        `json:"row_count"`
	Duration      float64    `json:"generation_duration"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	DownloadCount int        `json:"download_count"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Filters optionally restricts the extracted transactions. Empty slices
// mean no restriction on that dimension.
type Filters struct {
	ProductIDs  []int64 `json:"product_ids,omitempty"`
	PharmacyIDs []int64 `json:"pharmacy_ids,omitempty"`
}

// Empty reports whether no filter dimension is set.
func (f Filters) Empty() bool {
	return len(f.ProductIDs) == 0 && len(f.PharmacyIDs) == 0
}

// Terminal reports whether the job reached a final state.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// ListFilters narrows job listings.
type ListFilters struct {
	Type    ReportType
	Status  Status
	Page    int
	PerPage int
}
