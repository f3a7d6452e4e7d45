package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyMarketSnapshot 记录货币市场基金的月度表现。
type MoneyMarketSnapshot struct {
	Model
	FundID               uint            `gorm:"not null;uniqueIndex:idx_mm_snapshot_month" json:"fundId"`
	Fund                 *Fund           `json:"fund,omitempty"`
	Month                time.Time       `gorm:"not null;uniqueIndex:idx_mm_snapshot_month" json:"month"`
	AnnualizedYield      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"annualizedYield"`
	FundSize             decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"fundSize"`
	AverageMaturityDays  int             `json:"averageMaturityDays"`
	CashAndDeposits      decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"cashAndDeposits"`
	GovernmentSecurities decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"governmentSecurities"`
	CorporateDebt        decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"corporateDebt"`
}

// Holding 是权益基金的前十大持仓之一。
type Holding struct {
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
}

// Allocation 是按行业划分的资产配置比例。
type Allocation struct {
	Sector string          `json:"sector"`
	Weight decimal.Decimal `json:"weight"`
}

// EquitySnapshot 记录权益基金的月度表现。
type EquitySnapshot struct {
	Model
	FundID           uint            `gorm:"not null;uniqueIndex:idx_equity_snapshot_month" json:"fundId"`
	Fund             *Fund           `json:"fund,omitempty"`
	Month            time.Time       `gorm:"not null;uniqueIndex:idx_equity_snapshot_month" json:"month"`
	NAVPerUnit       decimal.Decimal `gorm:"column:nav_per_unit;type:decimal(20,4);not null" json:"navPerUnit"`
	FundSize         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"fundSize"`
	YTDReturn        decimal.Decimal `gorm:"column:ytd_return;type:decimal(10,4);not null;default:0" json:"ytdReturn"`
	OneYearReturn    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"oneYearReturn"`
	BenchmarkReturn  decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"benchmarkReturn"`
	TopHoldings      []Holding       `gorm:"type:text;serializer:json" json:"topHoldings"`
	SectorAllocation []Allocation    `gorm:"type:text;serializer:json" json:"sectorAllocation"`
}
