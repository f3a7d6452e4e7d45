package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundPrice 记录某只基金在某个交易日的单位净值与买卖价。
type FundPrice struct {
	Model
	FundID    uint            `gorm:"not null;uniqueIndex:idx_fund_price_day" json:"fundId"`
	Fund      *Fund           `gorm:"constraint:OnDelete:RESTRICT" json:"fund,omitempty"`
	PriceDate time.Time       `gorm:"not null;uniqueIndex:idx_fund_price_day;index" json:"priceDate"`
	NAV       decimal.Decimal `gorm:"column:nav;type:decimal(20,4);not null" json:"nav"`
	BuyPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"buyPrice"`
	SellPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sellPrice"`
}
