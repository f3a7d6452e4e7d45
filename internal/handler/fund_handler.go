package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type fundRequest struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Slug          string          `json:"slug" binding:"omitempty,slug,max=140"`
	Code          string          `json:"code" binding:"required,max=20"`
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description"`
	Objective     string          `json:"objective"`
	RiskLevel     string          `json:"riskLevel"`
	InceptionDate string          `json:"inceptionDate" binding:"omitempty,datetime=2006-01-02"`
	ManagementFee decimal.Decimal `json:"managementFee" binding:"decimal_nonneg"`
	TrusteeFee    decimal.Decimal `json:"trusteeFee" binding:"decimal_nonneg"`
	MinInvestment decimal.Decimal `json:"minInvestment" binding:"decimal_nonneg"`
	IsActive      *bool           `json:"isActive"`
	SortOrder     int             `json:"sortOrder"`
}

func (r fundRequest) toInput() (service.FundInput, error) {
	inception, err := parseOptionalDate(r.InceptionDate)
	if err != nil {
		return service.FundInput{}, err
	}
	return service.FundInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Code:          r.Code,
		Category:      r.Category,
		Description:   r.Description,
		Objective:     r.Objective,
		RiskLevel:     r.RiskLevel,
		InceptionDate: inception,
		ManagementFee: r.ManagementFee,
		TrusteeFee:    r.TrusteeFee,
		MinInvestment: r.MinInvestment,
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
	}, nil
}

// ListPublicFunds 返回前台展示的基金及其最新净值。
func (a *API) ListPublicFunds(c *gin.Context) {
	funds, err := a.funds.ListWithLatestPrice(service.FundFilter{
		Category:   c.Query("category"),
		ActiveOnly: true,
	})
	if err != nil {
		a.respondInternal(c, err, "failed to load funds")
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// GetPublicFund returns an active fund by slug with its latest price.
func (a *API) GetPublicFund(c *gin.Context) {
	fund, err := a.funds.GetBySlug(fundSlugParam(c))
	if err != nil {
		if errors.Is(err, service.ErrFundNotFound) {
			respondError(c, http.StatusNotFound, "fund not found")
			return
		}
		a.respondInternal(c, err, "failed to load fund")
		return
	}

	latest, err := a.prices.Latest(fund.ID)
	if err != nil {
		a.respondInternal(c, err, "failed to load fund price")
		return
	}

	result := service.FundWithPrice{Fund: *fund}
	if len(latest) > 0 {
		latest[0].Fund = nil
		result.LatestPrice = &latest[0]
	}
	c.JSON(http.StatusOK, gin.H{"fund": result})
}

// ListFunds 返回后台基金列表。
func (a *API) ListFunds(c *gin.Context) {
	funds, err := a.funds.List(service.FundFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: parseBoolQuery(c, "active"),
	})
	if err != nil {
		a.respondInternal(c, err, "failed to load funds")
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// GetFund 按 ID 返回基金。
func (a *API) GetFund(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid fund id")
		return
	}

	fund, err := a.funds.Get(id)
	if err != nil {
		a.respondFundError(c, err, "failed to load fund")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

// CreateFund 创建基金。
func (a *API) CreateFund(c *gin.Context) {
	var req fundRequest
	if !bindJSON(c, &req, "invalid fund payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid inception date")
		return
	}

	fund, err := a.funds.Create(input)
	if err != nil {
		a.respondFundError(c, err, "failed to create fund")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fund": fund})
}

// UpdateFund 更新基金。
func (a *API) UpdateFund(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid fund id")
		return
	}

	var req fundRequest
	if !bindJSON(c, &req, "invalid fund payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid inception date")
		return
	}

	fund, err := a.funds.Update(id, input)
	if err != nil {
		a.respondFundError(c, err, "failed to update fund")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

// DeleteFund 删除没有净值与快照的基金。
func (a *API) DeleteFund(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid fund id")
		return
	}

	if err := a.funds.Delete(id); err != nil {
		a.respondFundError(c, err, "failed to delete fund")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fund deleted"})
}

func (a *API) respondFundError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrFundNotFound):
		respondError(c, http.StatusNotFound, "fund not found")
	case errors.Is(err, service.ErrFundExists):
		respondError(c, http.StatusConflict, "fund name or code already exists")
	case errors.Is(err, service.ErrFundInUse):
		respondError(c, http.StatusConflict, "fund still has prices or snapshots")
	default:
		a.respondInternal(c, err, message)
	}
}

func fundSlugParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}
