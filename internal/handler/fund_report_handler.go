package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fundReportForm struct {
	FundID      string `form:"fundId"`
	Title       string `form:"title" binding:"required,max=200"`
	ReportType  string `form:"reportType"`
	Year        string `form:"year"`
	PublishedAt string `form:"publishedAt" binding:"omitempty,datetime=2006-01-02"`
}

func (f fundReportForm) toInput() (service.FundReportInput, error) {
	input := service.FundReportInput{
		Title:      f.Title,
		ReportType: f.ReportType,
	}

	if raw := strings.TrimSpace(f.FundID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return input, err
		}
		fundID := uint(id)
		input.FundID = &fundID
	}
	if raw := strings.TrimSpace(f.Year); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return input, err
		}
		input.Year = year
	}

	published, err := parseOptionalDate(f.PublishedAt)
	if err != nil {
		return input, err
	}
	input.PublishedAt = published
	return input, nil
}

func (a *API) bindReportForm(c *gin.Context) (service.FundReportInput, bool) {
	var form fundReportForm
	if err := c.ShouldBind(&form); err != nil {
		if fields := fieldErrors(err); len(fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload", "fields": fields})
			return service.FundReportInput{}, false
		}
		respondError(c, http.StatusBadRequest, "invalid report payload")
		return service.FundReportInput{}, false
	}

	input, err := form.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid report payload")
		return service.FundReportInput{}, false
	}
	return input, true
}

func optionalFormFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

func reportFilterFromQuery(c *gin.Context) service.FundReportFilter {
	page, perPage := parsePaging(c)
	return service.FundReportFilter{
		FundID:     parseUintQuery(c, "fundId"),
		ReportType: c.Query("type"),
		Year:       parseIntQuery(c, "year"),
		Page:       page,
		PerPage:    perPage,
	}
}

// ListFundReports 分页返回基金报告，前台与后台共用。
func (a *API) ListFundReports(c *gin.Context) {
	result, err := a.reports.List(reportFilterFromQuery(c))
	if err != nil {
		a.respondInternal(c, err, "failed to load reports")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFundReport 按 ID 返回报告。
func (a *API) GetFundReport(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := a.reports.Get(id)
	if err != nil {
		a.respondReportError(c, err, "failed to load report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// CreateFundReport 上传 PDF 并创建报告记录。
func (a *API) CreateFundReport(c *gin.Context) {
	input, ok := a.bindReportForm(c)
	if !ok {
		return
	}

	file, err := optionalFormFile(c, "file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid upload")
		return
	}

	report, err := a.reports.Create(input, file)
	if err != nil {
		a.respondReportError(c, err, "failed to create report")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// UpdateFundReport 更新报告信息，可选替换文件。
func (a *API) UpdateFundReport(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid report id")
		return
	}

	input, ok := a.bindReportForm(c)
	if !ok {
		return
	}

	file, err := optionalFormFile(c, "file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid upload")
		return
	}

	report, err := a.reports.Update(id, input, file)
	if err != nil {
		a.respondReportError(c, err, "failed to update report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// DeleteFundReport 删除报告及其文件。
func (a *API) DeleteFundReport(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid report id")
		return
	}

	if err := a.reports.Delete(id); err != nil {
		if !errors.Is(err, service.ErrReportFileCleanup) {
			a.respondReportError(c, err, "failed to delete report")
			return
		}
		// 记录已删除，仅文件清理失败
		a.logger.Warn("report file cleanup failed", zap.Uint("reportId", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}

func (a *API) respondReportError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case respondUploadError(c, err):
	case errors.Is(err, service.ErrReportFileMissing):
		respondError(c, http.StatusBadRequest, "report file is required")
	case errors.Is(err, service.ErrFundNotFound):
		respondError(c, http.StatusBadRequest, "fund does not exist")
	case errors.Is(err, service.ErrReportNotFound):
		respondError(c, http.StatusNotFound, "report not found")
	default:
		a.respondInternal(c, err, message)
	}
}
