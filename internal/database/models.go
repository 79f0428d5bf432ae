package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// CaseQuery is one row per search submission. Rows are written once and
// never updated.
type CaseQuery struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CaseType       string    `json:"case_type" gorm:"size:100;not null;index:idx_case_queries_case,priority:1"`
	CaseNumber     string    `json:"case_number" gorm:"size:100;not null;index:idx_case_queries_case,priority:2"`
	FilingYear     int       `json:"filing_year" gorm:"not null;index:idx_case_queries_case,priority:3"`
	QueryTimestamp time.Time `json:"query_timestamp" gorm:"not null;index"`
	Success        bool      `json:"success" gorm:"not null;default:false"`
	ErrorKind      string    `json:"error_kind,omitempty" gorm:"size:50"`
	ErrorMessage   string    `json:"error_message,omitempty" gorm:"type:text"`

	// Parsed case data, absent on failure
	PartiesName     *string    `json:"parties_name"`
	FilingDate      *time.Time `json:"filing_date"`
	NextHearingDate *time.Time `json:"next_hearing_date"`
	CaseStatus      *string    `json:"case_status" gorm:"size:200"`

	// Raw upstream body, kept verbatim for re-parsing
	RawResponse *string `json:"-" gorm:"type:text"`

	PDFLinks datatypes.JSONSlice[string] `json:"pdf_links"`

	Downloads []PDFDownload `json:"-" gorm:"foreignKey:CaseQueryID;constraint:OnDelete:CASCADE"`
}

// PDFDownload is one row per attempted document download.
type PDFDownload struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CaseQueryID       uint      `json:"case_query_id" gorm:"not null;index"`
	SourceURL         string    `json:"source_url" gorm:"type:text;not null"`
	DownloadTimestamp time.Time `json:"download_timestamp" gorm:"not null"`
	Success           bool      `json:"success" gorm:"not null;default:false"`
	ByteSize          *int64    `json:"byte_size"`
	PageCount         *int      `json:"page_count"`
}

func (CaseQuery) TableName() string {
	return "case_queries"
}

func (PDFDownload) TableName() string {
	return "pdf_downloads"
}

// Validate checks the row invariants before it is written.
func (q *CaseQuery) Validate() error {
	if strings.TrimSpace(q.CaseType) == "" {
		return errors.New("case type is required")
	}
	if strings.TrimSpace(q.CaseNumber) == "" {
		return errors.New("case number is required")
	}
	if q.FilingYear == 0 {
		return errors.New("filing year is required")
	}
	if q.Success {
		if q.CaseStatus == nil || strings.TrimSpace(*q.CaseStatus) == "" {
			return errors.New("successful query must carry a case status")
		}
		return nil
	}
	if q.PartiesName != nil || q.FilingDate != nil || q.NextHearingDate != nil || q.CaseStatus != nil {
		return errors.New("failed query must not carry case details")
	}
	return nil
}

// Validate checks the row invariants before it is written.
func (d *PDFDownload) Validate() error {
	if d.CaseQueryID == 0 {
		return errors.New("download must reference a case query")
	}
	if strings.TrimSpace(d.SourceURL) == "" {
		return errors.New("download source URL is required")
	}
	if !d.Success && (d.ByteSize != nil || d.PageCount != nil) {
		return errors.New("failed download must not carry a size")
	}
	return nil
}
