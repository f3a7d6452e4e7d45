package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/db"
	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type moneyMarketRequest struct {
	FundID               uint            `json:"fundId" binding:"required"`
	Month                string          `json:"month" binding:"required,yearmonth"`
	AnnualizedYield      decimal.Decimal `json:"annualizedYield" binding:"decimal_nonneg"`
	FundSize             decimal.Decimal `json:"fundSize" binding:"decimal_nonneg"`
	AverageMaturityDays  int             `json:"averageMaturityDays" binding:"min=0"`
	CashAndDeposits      decimal.Decimal `json:"cashAndDeposits" binding:"decimal_nonneg"`
	GovernmentSecurities decimal.Decimal `json:"governmentSecurities" binding:"decimal_nonneg"`
	CorporateDebt        decimal.Decimal `json:"corporateDebt" binding:"decimal_nonneg"`
}

type equityRequest struct {
	FundID           uint            `json:"fundId" binding:"required"`
	Month            string          `json:"month" binding:"required,yearmonth"`
	NAVPerUnit       decimal.Decimal `json:"navPerUnit" binding:"decimal_nonneg"`
	FundSize         decimal.Decimal `json:"fundSize" binding:"decimal_nonneg"`
	YTDReturn        decimal.Decimal `json:"ytdReturn"`
	OneYearReturn    decimal.Decimal `json:"oneYearReturn"`
	BenchmarkReturn  decimal.Decimal `json:"benchmarkReturn"`
	TopHoldings      []db.Holding    `json:"topHoldings"`
	SectorAllocation []db.Allocation `json:"sectorAllocation"`
}

func (r moneyMarketRequest) toInput() (service.MoneyMarketInput, error) {
	month, err := parseMonth(r.Month)
	if err != nil {
		return service.MoneyMarketInput{}, err
	}
	return service.MoneyMarketInput{
		FundID:               r.FundID,
		Month:                month,
		AnnualizedYield:      r.AnnualizedYield,
		FundSize:             r.FundSize,
		AverageMaturityDays:  r.AverageMaturityDays,
		CashAndDeposits:      r.CashAndDeposits,
		GovernmentSecurities: r.GovernmentSecurities,
		CorporateDebt:        r.CorporateDebt,
	}, nil
}

func (r equityRequest) toInput() (service.EquityInput, error) {
	month, err := parseMonth(r.Month)
	if err != nil {
		return service.EquityInput{}, err
	}
	return service.EquityInput{
		FundID:           r.FundID,
		Month:            month,
		NAVPerUnit:       r.NAVPerUnit,
		FundSize:         r.FundSize,
		YTDReturn:        r.YTDReturn,
		OneYearReturn:    r.OneYearReturn,
		BenchmarkReturn:  r.BenchmarkReturn,
		TopHoldings:      r.TopHoldings,
		SectorAllocation: r.SectorAllocation,
	}, nil
}

func snapshotFilterFromQuery(c *gin.Context) service.SnapshotFilter {
	page, perPage := parsePaging(c)
	return service.SnapshotFilter{
		FundID:  parseUintQuery(c, "fundId"),
		Year:    parseIntQuery(c, "year"),
		Page:    page,
		PerPage: perPage,
	}
}

// ListMoneyMarketSnapshots 返回货币基金月度快照。
func (a *API) ListMoneyMarketSnapshots(c *gin.Context) {
	result, err := a.snapshots.ListMoneyMarket(snapshotFilterFromQuery(c))
	if err != nil {
		a.respondInternal(c, err, "failed to load snapshots")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMoneyMarketSnapshot 按 ID 返回货币基金快照。
func (a *API) GetMoneyMarketSnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	snapshot, err := a.snapshots.GetMoneyMarket(id)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to load snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// CreateMoneyMarketSnapshot 录入货币基金月度快照。
func (a *API) CreateMoneyMarketSnapshot(c *gin.Context) {
	var req moneyMarketRequest
	if !bindJSON(c, &req, "invalid snapshot payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid month")
		return
	}

	snapshot, err := a.snapshots.CreateMoneyMarket(input)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to create snapshot")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// UpdateMoneyMarketSnapshot 更新货币基金快照。
func (a *API) UpdateMoneyMarketSnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	var req moneyMarketRequest
	if !bindJSON(c, &req, "invalid snapshot payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid month")
		return
	}

	snapshot, err := a.snapshots.UpdateMoneyMarket(id, input)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to update snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// DeleteMoneyMarketSnapshot 删除货币基金快照。
func (a *API) DeleteMoneyMarketSnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	if err := a.snapshots.DeleteMoneyMarket(id); err != nil {
		a.respondSnapshotError(c, err, "failed to delete snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "snapshot deleted"})
}

// ListEquitySnapshots 返回股票基金月度快照。
func (a *API) ListEquitySnapshots(c *gin.Context) {
	result, err := a.snapshots.ListEquity(snapshotFilterFromQuery(c))
	if err != nil {
		a.respondInternal(c, err, "failed to load snapshots")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEquitySnapshot 按 ID 返回股票基金快照。
func (a *API) GetEquitySnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	snapshot, err := a.snapshots.GetEquity(id)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to load snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// CreateEquitySnapshot 录入股票基金月度快照。
func (a *API) CreateEquitySnapshot(c *gin.Context) {
	var req equityRequest
	if !bindJSON(c, &req, "invalid snapshot payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid month")
		return
	}

	snapshot, err := a.snapshots.CreateEquity(input)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to create snapshot")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// UpdateEquitySnapshot 更新股票基金快照。
func (a *API) UpdateEquitySnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	var req equityRequest
	if !bindJSON(c, &req, "invalid snapshot payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid month")
		return
	}

	snapshot, err := a.snapshots.UpdateEquity(id, input)
	if err != nil {
		a.respondSnapshotError(c, err, "failed to update snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// DeleteEquitySnapshot 删除股票基金快照。
func (a *API) DeleteEquitySnapshot(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	if err := a.snapshots.DeleteEquity(id); err != nil {
		a.respondSnapshotError(c, err, "failed to delete snapshot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "snapshot deleted"})
}

func (a *API) respondSnapshotError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrFundNotFound):
		respondError(c, http.StatusBadRequest, "fund does not exist")
	case errors.Is(err, service.ErrSnapshotFundKind):
		respondError(c, http.StatusBadRequest, "fund category does not match snapshot kind")
	case errors.Is(err, service.ErrSnapshotNotFound):
		respondError(c, http.StatusNotFound, "snapshot not found")
	case errors.Is(err, service.ErrSnapshotExists):
		respondError(c, http.StatusConflict, "snapshot already exists for this month")
	default:
		a.respondInternal(c, err, message)
	}
}
