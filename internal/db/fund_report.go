package db

import "time"

const (
	ReportTypeAnnual    = "annual"
	ReportTypeInterim   = "interim"
	ReportTypeQuarterly = "quarterly"
	ReportTypeFactsheet = "factsheet"
	ReportTypeOther     = "other"
)

// ReportTypes lists accepted report types.
var ReportTypes = []string{
	ReportTypeAnnual,
	ReportTypeInterim,
	ReportTypeQuarterly,
	ReportTypeFactsheet,
	ReportTypeOther,
}

// FundReport 是上传的 PDF 报告；FundID 为空表示公司级报告。
type FundReport struct {
	Model
	FundID      *uint     `gorm:"index" json:"fundId"`
	Fund        *Fund     `gorm:"constraint:OnDelete:SET NULL" json:"fund,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	ReportType  string    `gorm:"size:30;index;not null" json:"reportType"`
	Year        int       `gorm:"index" json:"year"`
	FileName    string    `gorm:"size:255" json:"fileName"`
	FilePath    string    `gorm:"size:255;not null" json:"-"`
	FileURL     string    `gorm:"size:255;not null" json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
}
