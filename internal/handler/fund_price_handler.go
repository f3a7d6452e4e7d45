package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type fundPriceRequest struct {
	FundID    uint            `json:"fundId" binding:"required"`
	PriceDate string          `json:"priceDate" binding:"required,datetime=2006-01-02"`
	NAV       decimal.Decimal `json:"nav" binding:"required,decimal_nonneg"`
	BuyPrice  decimal.Decimal `json:"buyPrice" binding:"decimal_nonneg"`
	SellPrice decimal.Decimal `json:"sellPrice" binding:"decimal_nonneg"`
}

type batchPriceEntryRequest struct {
	FundID    uint            `json:"fundId" binding:"required"`
	NAV       decimal.Decimal `json:"nav" binding:"required,decimal_nonneg"`
	BuyPrice  decimal.Decimal `json:"buyPrice" binding:"decimal_nonneg"`
	SellPrice decimal.Decimal `json:"sellPrice" binding:"decimal_nonneg"`
}

type batchPriceRequest struct {
	PriceDate string                   `json:"priceDate" binding:"required,datetime=2006-01-02"`
	Prices    []batchPriceEntryRequest `json:"prices" binding:"required,min=1,dive"`
}

func (r fundPriceRequest) toInput() (service.FundPriceInput, error) {
	date, err := parseDate(r.PriceDate)
	if err != nil {
		return service.FundPriceInput{}, err
	}
	return service.FundPriceInput{
		FundID:    r.FundID,
		PriceDate: date,
		NAV:       r.NAV,
		BuyPrice:  r.BuyPrice,
		SellPrice: r.SellPrice,
	}, nil
}

func priceFilterFromQuery(c *gin.Context) (service.FundPriceFilter, error) {
	page, perPage := parsePaging(c)
	filter := service.FundPriceFilter{
		FundID:  parseUintQuery(c, "fundId"),
		Page:    page,
		PerPage: perPage,
	}

	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		return filter, err
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to
	return filter, nil
}

// LatestFundPrices 返回每只基金最新一天的净值。
func (a *API) LatestFundPrices(c *gin.Context) {
	ids := parseUintQuerySlice(c.QueryArray("fundId"))
	prices, err := a.prices.Latest(ids...)
	if err != nil {
		a.respondInternal(c, err, "failed to load latest prices")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// ListPublicFundPrices returns the price history of an active fund.
func (a *API) ListPublicFundPrices(c *gin.Context) {
	fund, err := a.funds.GetBySlug(fundSlugParam(c))
	if err != nil {
		if errors.Is(err, service.ErrFundNotFound) {
			respondError(c, http.StatusNotFound, "fund not found")
			return
		}
		a.respondInternal(c, err, "failed to load fund")
		return
	}

	filter, err := priceFilterFromQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date range")
		return
	}
	filter.FundID = fund.ID

	result, err := a.prices.List(filter)
	if err != nil {
		a.respondInternal(c, err, "failed to load prices")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListFundPrices 返回后台净值列表。
func (a *API) ListFundPrices(c *gin.Context) {
	filter, err := priceFilterFromQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date range")
		return
	}

	result, err := a.prices.List(filter)
	if err != nil {
		a.respondInternal(c, err, "failed to load prices")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFundPrice 按 ID 返回净值记录。
func (a *API) GetFundPrice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price id")
		return
	}

	price, err := a.prices.Get(id)
	if err != nil {
		a.respondPriceError(c, err, "failed to load price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price})
}

// CreateFundPrice 新增一条净值记录。
func (a *API) CreateFundPrice(c *gin.Context) {
	var req fundPriceRequest
	if !bindJSON(c, &req, "invalid price payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price date")
		return
	}

	price, err := a.prices.Create(input)
	if err != nil {
		a.respondPriceError(c, err, "failed to create price")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"price": price})
}

// CreateFundPriceBatch 在一个事务中录入同一天多只基金的净值。
func (a *API) CreateFundPriceBatch(c *gin.Context) {
	var req batchPriceRequest
	if !bindJSON(c, &req, "invalid price batch payload") {
		return
	}
	date, err := parseDate(req.PriceDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price date")
		return
	}

	entries := make([]service.BatchPriceEntry, 0, len(req.Prices))
	for _, entry := range req.Prices {
		entries = append(entries, service.BatchPriceEntry{
			FundID:    entry.FundID,
			NAV:       entry.NAV,
			BuyPrice:  entry.BuyPrice,
			SellPrice: entry.SellPrice,
		})
	}

	prices, err := a.prices.CreateBatch(date, entries)
	if err != nil {
		a.respondPriceError(c, err, "failed to create prices")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prices": prices})
}

// UpdateFundPrice 更新净值记录。
func (a *API) UpdateFundPrice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price id")
		return
	}

	var req fundPriceRequest
	if !bindJSON(c, &req, "invalid price payload") {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price date")
		return
	}

	price, err := a.prices.Update(id, input)
	if err != nil {
		a.respondPriceError(c, err, "failed to update price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price})
}

// DeleteFundPrice 删除净值记录。
func (a *API) DeleteFundPrice(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid price id")
		return
	}

	if err := a.prices.Delete(id); err != nil {
		a.respondPriceError(c, err, "failed to delete price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "price deleted"})
}

func (a *API) respondPriceError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrFundNotFound):
		respondError(c, http.StatusBadRequest, "fund does not exist")
	case errors.Is(err, service.ErrFundPriceNotFound):
		respondError(c, http.StatusNotFound, "price not found")
	case errors.Is(err, service.ErrFundPriceExists):
		respondError(c, http.StatusConflict, "price already recorded for this fund and date")
	default:
		a.respondInternal(c, err, message)
	}
}
