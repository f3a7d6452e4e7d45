package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/fundhouse/internal/db"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound    = errors.New("fund report not found")
	ErrReportFileMissing = errors.New("fund report file is required")
	ErrReportFileCleanup = errors.New("fund report file could not be removed")
)

// FundReportService manages uploaded fund reports.
type FundReportService struct {
	db    *gorm.DB
	files FileStore
	now   func() time.Time
}

// FundReportFilter narrows report listings.
type FundReportFilter struct {
	FundID     uint
	ReportType string
	Year       int
	Page       int
	PerPage    int
}

// FundReportInput represents report metadata.
type FundReportInput struct {
	FundID      *uint
	Title       string
	ReportType  string
	Year        int
	PublishedAt *time.Time
}

// NewFundReportService creates a FundReportService instance.
func NewFundReportService(gdb *gorm.DB, files FileStore) *FundReportService {
	return &FundReportService{db: gdb, files: files, now: time.Now}
}

// List returns reports newest first.
func (s *FundReportService) List(filter FundReportFilter) (ListResult[db.FundReport], error) {
	result := newListResult[db.FundReport](filter.Page, filter.PerPage, 10)

	query := s.db.Model(&db.FundReport{})
	if filter.FundID != 0 {
		query = query.Where("fund_id = ?", filter.FundID)
	}
	if reportType := strings.ToLower(strings.TrimSpace(filter.ReportType)); reportType != "" {
		query = query.Where("report_type = ?", reportType)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	if err := query.Preload("Fund").
		Order("published_at desc").
		Order("id desc").
		Limit(result.PerPage).
		Offset(result.offset()).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	result.finish()
	return result, nil
}

// Get fetches a report by id.
func (s *FundReportService) Get(id uint) (*db.FundReport, error) {
	var report db.FundReport
	if err := s.db.Preload("Fund").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Create stores the uploaded PDF and records it.
func (s *FundReportService) Create(input FundReportInput, file *multipart.FileHeader) (*db.FundReport, error) {
	input = s.normalizeInput(input)
	if err := validateReportInput(input); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrReportFileMissing
	}
	if err := s.checkFund(input.FundID); err != nil {
		return nil, err
	}

	stored, err := s.files.SavePDF(reportUploadDir, file)
	if err != nil {
		return nil, err
	}

	report := db.FundReport{
		FilePath: stored.RelPath,
		FileURL:  stored.URL,
		FileName: stored.Original,
		FileSize: stored.Size,
	}
	applyReportInput(&report, input)

	if err := s.db.Create(&report).Error; err != nil {
		_ = s.files.Remove(stored.RelPath)
		return nil, translateReportError(err)
	}
	return &report, nil
}

// Update edits report metadata and, when file is given, replaces the document.
func (s *FundReportService) Update(id uint, input FundReportInput, file *multipart.FileHeader) (*db.FundReport, error) {
	input = s.normalizeInput(input)
	if err := validateReportInput(input); err != nil {
		return nil, err
	}

	var report db.FundReport
	if err := s.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := s.checkFund(input.FundID); err != nil {
		return nil, err
	}

	oldPath := ""
	if file != nil {
		stored, err := s.files.SavePDF(reportUploadDir, file)
		if err != nil {
			return nil, err
		}
		oldPath = report.FilePath
		report.FilePath = stored.RelPath
		report.FileURL = stored.URL
		report.FileName = stored.Original
		report.FileSize = stored.Size
	}

	applyReportInput(&report, input)
	report.Fund = nil
	if err := s.db.Save(&report).Error; err != nil {
		if file != nil {
			_ = s.files.Remove(report.FilePath)
		}
		return nil, translateReportError(err)
	}
	if oldPath != "" {
		_ = s.files.Remove(oldPath)
	}
	return &report, nil
}

// Delete removes the report row and its stored file.
func (s *FundReportService) Delete(id uint) error {
	var report db.FundReport
	if err := s.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if err := s.db.Delete(&report).Error; err != nil {
		return err
	}
	if err := s.files.Remove(report.FilePath); err != nil {
		return fmt.Errorf("%w: %w", ErrReportFileCleanup, err)
	}
	return nil
}

// Count returns the number of reports.
func (s *FundReportService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.FundReport{}).Count(&count).Error
	return count, err
}

func (s *FundReportService) checkFund(fundID *uint) error {
	if fundID == nil {
		return nil
	}
	_, err := findFund(s.db, *fundID)
	return err
}

func (s *FundReportService) normalizeInput(input FundReportInput) FundReportInput {
	input.Title = strings.TrimSpace(input.Title)
	input.ReportType = strings.ToLower(strings.TrimSpace(input.ReportType))
	if input.ReportType == "" {
		input.ReportType = db.ReportTypeOther
	}
	if input.FundID != nil && *input.FundID == 0 {
		input.FundID = nil
	}
	if input.PublishedAt == nil {
		now := s.now().UTC()
		input.PublishedAt = &now
	}
	if input.Year == 0 {
		input.Year = input.PublishedAt.Year()
	}
	return input
}

func validateReportInput(input FundReportInput) error {
	if input.Title == "" {
		return invalid("title", "is required")
	}
	if err := requireOneOf("reportType", input.ReportType, db.ReportTypes); err != nil {
		return err
	}
	if input.Year < 1990 || input.Year > 2100 {
		return invalid("year", "is out of range")
	}
	return nil
}

func applyReportInput(report *db.FundReport, input FundReportInput) {
	report.FundID = input.FundID
	report.Title = input.Title
	report.ReportType = input.ReportType
	report.Year = input.Year
	report.PublishedAt = *input.PublishedAt
}

func translateReportError(err error) error {
	if db.IsForeignKeyViolation(err) {
		return ErrFundNotFound
	}
	return err
}
