package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/fundhouse/internal/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrFundPriceNotFound = errors.New("fund price not found")
	ErrFundPriceExists   = errors.New("fund already has a price for this date")
)

// FundPriceService manages daily fund prices.
type FundPriceService struct {
	db *gorm.DB
}

// FundPriceFilter narrows price listings.
type FundPriceFilter struct {
	FundID  uint
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}

// FundPriceInput represents a single price row.
type FundPriceInput struct {
	FundID    uint
	PriceDate time.Time
	NAV       decimal.Decimal
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// BatchPriceEntry is one fund's prices inside a daily batch.
type BatchPriceEntry struct {
	FundID    uint
	NAV       decimal.Decimal
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// NewFundPriceService creates a FundPriceService instance.
func NewFundPriceService(gdb *gorm.DB) *FundPriceService {
	return &FundPriceService{db: gdb}
}

// List returns prices newest first.
func (s *FundPriceService) List(filter FundPriceFilter) (ListResult[db.FundPrice], error) {
	result := newListResult[db.FundPrice](filter.Page, filter.PerPage, 30)

	query := s.db.Model(&db.FundPrice{})
	if filter.FundID != 0 {
		query = query.Where("fund_id = ?", filter.FundID)
	}
	if filter.From != nil {
		query = query.Where("price_date >= ?", db.DateOnly(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("price_date <= ?", db.DateOnly(*filter.To))
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	if err := query.Preload("Fund").
		Order("price_date desc").
		Order("fund_id asc").
		Limit(result.PerPage).
		Offset(result.offset()).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	result.finish()
	return result, nil
}

// Latest returns the most recent price of each fund, optionally limited to fundIDs.
func (s *FundPriceService) Latest(fundIDs ...uint) ([]db.FundPrice, error) {
	return latestPrices(s.db, fundIDs)
}

func latestPrices(tx *gorm.DB, fundIDs []uint) ([]db.FundPrice, error) {
	latest := tx.Model(&db.FundPrice{}).
		Select("fund_id, MAX(price_date) AS price_date").
		Group("fund_id")
	if len(fundIDs) > 0 {
		latest = latest.Where("fund_id IN ?", fundIDs)
	}

	prices := []db.FundPrice{}
	if err := tx.Model(&db.FundPrice{}).
		Joins("JOIN (?) AS latest ON latest.fund_id = fund_prices.fund_id AND latest.price_date = fund_prices.price_date", latest).
		Preload("Fund").
		Order("fund_prices.fund_id asc").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Get fetches a price by id.
func (s *FundPriceService) Get(id uint) (*db.FundPrice, error) {
	var price db.FundPrice
	if err := s.db.Preload("Fund").First(&price, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundPriceNotFound
		}
		return nil, err
	}
	return &price, nil
}

// Create inserts one price row for an existing fund.
func (s *FundPriceService) Create(input FundPriceInput) (*db.FundPrice, error) {
	if err := validateFundPriceInput(input); err != nil {
		return nil, err
	}

	price := db.FundPrice{}
	applyFundPriceInput(&price, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findFund(tx, input.FundID); err != nil {
			return err
		}
		return tx.Create(&price).Error
	})
	if err != nil {
		return nil, translatePriceError(err)
	}
	return &price, nil
}

// CreateBatch inserts the prices of several funds for one day atomically.
func (s *FundPriceService) CreateBatch(date time.Time, entries []BatchPriceEntry) ([]db.FundPrice, error) {
	if date.IsZero() {
		return nil, invalid("priceDate", "is required")
	}
	if len(entries) == 0 {
		return nil, invalid("prices", "must contain at least one entry")
	}

	seen := make(map[uint]struct{}, len(entries))
	prices := make([]db.FundPrice, 0, len(entries))
	for i, entry := range entries {
		input := FundPriceInput{
			FundID:    entry.FundID,
			PriceDate: date,
			NAV:       entry.NAV,
			BuyPrice:  entry.BuyPrice,
			SellPrice: entry.SellPrice,
		}
		if err := validateFundPriceInput(input); err != nil {
			var fieldErr *FieldError
			if errors.As(err, &fieldErr) {
				return nil, invalid(fmt.Sprintf("prices[%d].%s", i, fieldErr.Field), fieldErr.Message)
			}
			return nil, err
		}
		if _, dup := seen[entry.FundID]; dup {
			return nil, invalid(fmt.Sprintf("prices[%d].fundId", i), "is duplicated in batch")
		}
		seen[entry.FundID] = struct{}{}

		var price db.FundPrice
		applyFundPriceInput(&price, input)
		prices = append(prices, price)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range prices {
			if _, err := findFund(tx, prices[i].FundID); err != nil {
				return err
			}
			if err := tx.Create(&prices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translatePriceError(err)
	}
	return prices, nil
}

// Update modifies an existing price row.
func (s *FundPriceService) Update(id uint, input FundPriceInput) (*db.FundPrice, error) {
	if err := validateFundPriceInput(input); err != nil {
		return nil, err
	}

	var price db.FundPrice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&price, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundPriceNotFound
			}
			return err
		}
		if _, err := findFund(tx, input.FundID); err != nil {
			return err
		}
		applyFundPriceInput(&price, input)
		return tx.Save(&price).Error
	})
	if err != nil {
		return nil, translatePriceError(err)
	}
	return &price, nil
}

// Delete removes a price row.
func (s *FundPriceService) Delete(id uint) error {
	result := s.db.Delete(&db.FundPrice{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFundPriceNotFound
	}
	return nil
}

// Count returns the number of stored prices.
func (s *FundPriceService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.FundPrice{}).Count(&count).Error
	return count, err
}

func validateFundPriceInput(input FundPriceInput) error {
	if input.FundID == 0 {
		return invalid("fundId", "is required")
	}
	if input.PriceDate.IsZero() {
		return invalid("priceDate", "is required")
	}
	if err := requirePositive("nav", input.NAV); err != nil {
		return err
	}
	if err := requireNonNegative("buyPrice", input.BuyPrice); err != nil {
		return err
	}
	return requireNonNegative("sellPrice", input.SellPrice)
}

func applyFundPriceInput(price *db.FundPrice, input FundPriceInput) {
	price.FundID = input.FundID
	price.PriceDate = db.DateOnly(input.PriceDate)
	price.NAV = input.NAV
	price.BuyPrice = input.BuyPrice
	price.SellPrice = input.SellPrice
}

func translatePriceError(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return ErrFundPriceExists
	case db.IsForeignKeyViolation(err):
		return ErrFundNotFound
	}
	return err
}
