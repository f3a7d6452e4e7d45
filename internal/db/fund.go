package db

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FundCategoryMoneyMarket = "money_market"
	FundCategoryEquity      = "equity"
	FundCategoryIncome      = "income"
	FundCategoryBalanced    = "balanced"
	FundCategoryGilt        = "gilt"
)

// FundCategories lists every accepted fund category.
var FundCategories = []string{
	FundCategoryMoneyMarket,
	FundCategoryEquity,
	FundCategoryIncome,
	FundCategoryBalanced,
	FundCategoryGilt,
}

const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// Fund 定义了单位信托基金
type Fund struct {
	Model
	Name          string          `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Slug          string          `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Code          string          `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Category      string          `gorm:"size:30;index;not null" json:"category"`
	Description   string          `gorm:"type:text" json:"description"`
	Objective     string          `gorm:"type:text" json:"objective"`
	RiskLevel     string          `gorm:"size:20" json:"riskLevel"`
	InceptionDate *time.Time      `json:"inceptionDate"`
	ManagementFee decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"managementFee"`
	TrusteeFee    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"trusteeFee"`
	MinInvestment decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"minInvestment"`
	IsActive      bool            `gorm:"not null" json:"isActive"`
	SortOrder     int             `gorm:"default:0" json:"sortOrder"`
}
