package service

import (
	"errors"
	"time"

	"github.com/fundhouse/internal/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotExists   = errors.New("snapshot already exists for this month")
	ErrSnapshotFundKind = errors.New("fund category does not match snapshot kind")
)

var hundred = decimal.NewFromInt(100)

// SnapshotService manages monthly money market and equity performance snapshots.
type SnapshotService struct {
	db *gorm.DB
}

// SnapshotFilter narrows snapshot listings.
type SnapshotFilter struct {
	FundID  uint
	Year    int
	Page    int
	PerPage int
}

// MoneyMarketInput represents a money market snapshot.
type MoneyMarketInput struct {
	FundID               uint
	Month                time.Time
	AnnualizedYield      decimal.Decimal
	FundSize             decimal.Decimal
	AverageMaturityDays  int
	CashAndDeposits      decimal.Decimal
	GovernmentSecurities decimal.Decimal
	CorporateDebt        decimal.Decimal
}

// EquityInput represents an equity snapshot.
type EquityInput struct {
	FundID           uint
	Month            time.Time
	NAVPerUnit       decimal.Decimal
	FundSize         decimal.Decimal
	YTDReturn        decimal.Decimal
	OneYearReturn    decimal.Decimal
	BenchmarkReturn  decimal.Decimal
	TopHoldings      []db.Holding
	SectorAllocation []db.Allocation
}

// NewSnapshotService creates a SnapshotService instance.
func NewSnapshotService(gdb *gorm.DB) *SnapshotService {
	return &SnapshotService{db: gdb}
}

// ListMoneyMarket returns money market snapshots newest month first.
func (s *SnapshotService) ListMoneyMarket(filter SnapshotFilter) (ListResult[db.MoneyMarketSnapshot], error) {
	result := newListResult[db.MoneyMarketSnapshot](filter.Page, filter.PerPage, 12)
	err := listSnapshots(s.db.Model(&db.MoneyMarketSnapshot{}), filter, &result.Total, &result.Items, result.PerPage, result.offset())
	result.finish()
	return result, err
}

// ListEquity returns equity snapshots newest month first.
func (s *SnapshotService) ListEquity(filter SnapshotFilter) (ListResult[db.EquitySnapshot], error) {
	result := newListResult[db.EquitySnapshot](filter.Page, filter.PerPage, 12)
	err := listSnapshots(s.db.Model(&db.EquitySnapshot{}), filter, &result.Total, &result.Items, result.PerPage, result.offset())
	result.finish()
	return result, err
}

func listSnapshots(query *gorm.DB, filter SnapshotFilter, total *int64, dest interface{}, limit, offset int) error {
	if filter.FundID != 0 {
		query = query.Where("fund_id = ?", filter.FundID)
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("month >= ? AND month < ?", start, start.AddDate(1, 0, 0))
	}

	if err := query.Count(total).Error; err != nil {
		return err
	}
	return query.Preload("Fund").
		Order("month desc").
		Order("fund_id asc").
		Limit(limit).
		Offset(offset).
		Find(dest).Error
}

// GetMoneyMarket fetches a money market snapshot.
func (s *SnapshotService) GetMoneyMarket(id uint) (*db.MoneyMarketSnapshot, error) {
	var snapshot db.MoneyMarketSnapshot
	if err := findSnapshot(s.db, &snapshot, id); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetEquity fetches an equity snapshot.
func (s *SnapshotService) GetEquity(id uint) (*db.EquitySnapshot, error) {
	var snapshot db.EquitySnapshot
	if err := findSnapshot(s.db, &snapshot, id); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// CreateMoneyMarket records a money market snapshot.
func (s *SnapshotService) CreateMoneyMarket(input MoneyMarketInput) (*db.MoneyMarketSnapshot, error) {
	if err := validateMoneyMarketInput(input); err != nil {
		return nil, err
	}

	snapshot := db.MoneyMarketSnapshot{}
	applyMoneyMarketInput(&snapshot, input)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireFundCategory(tx, input.FundID, db.FundCategoryMoneyMarket); err != nil {
			return err
		}
		return tx.Create(&snapshot).Error
	})
	if err != nil {
		return nil, translateSnapshotError(err)
	}
	return &snapshot, nil
}

// UpdateMoneyMarket modifies a money market snapshot.
func (s *SnapshotService) UpdateMoneyMarket(id uint, input MoneyMarketInput) (*db.MoneyMarketSnapshot, error) {
	if err := validateMoneyMarketInput(input); err != nil {
		return nil, err
	}

	var snapshot db.MoneyMarketSnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findSnapshot(tx, &snapshot, id); err != nil {
			return err
		}
		if err := requireFundCategory(tx, input.FundID, db.FundCategoryMoneyMarket); err != nil {
			return err
		}
		applyMoneyMarketInput(&snapshot, input)
		return tx.Save(&snapshot).Error
	})
	if err != nil {
		return nil, translateSnapshotError(err)
	}
	return &snapshot, nil
}

// DeleteMoneyMarket removes a money market snapshot.
func (s *SnapshotService) DeleteMoneyMarket(id uint) error {
	return deleteSnapshot(s.db, &db.MoneyMarketSnapshot{}, id)
}

// CreateEquity records an equity snapshot.
func (s *SnapshotService) CreateEquity(input EquityInput) (*db.EquitySnapshot, error) {
	if err := validateEquityInput(input); err != nil {
		return nil, err
	}

	snapshot := db.EquitySnapshot{}
	applyEquityInput(&snapshot, input)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireFundCategory(tx, input.FundID, db.FundCategoryEquity); err != nil {
			return err
		}
		return tx.Create(&snapshot).Error
	})
	if err != nil {
		return nil, translateSnapshotError(err)
	}
	return &snapshot, nil
}

// UpdateEquity modifies an equity snapshot.
func (s *SnapshotService) UpdateEquity(id uint, input EquityInput) (*db.EquitySnapshot, error) {
	if err := validateEquityInput(input); err != nil {
		return nil, err
	}

	var snapshot db.EquitySnapshot
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findSnapshot(tx, &snapshot, id); err != nil {
			return err
		}
		if err := requireFundCategory(tx, input.FundID, db.FundCategoryEquity); err != nil {
			return err
		}
		applyEquityInput(&snapshot, input)
		return tx.Save(&snapshot).Error
	})
	if err != nil {
		return nil, translateSnapshotError(err)
	}
	return &snapshot, nil
}

// DeleteEquity removes an equity snapshot.
func (s *SnapshotService) DeleteEquity(id uint) error {
	return deleteSnapshot(s.db, &db.EquitySnapshot{}, id)
}

func findSnapshot(tx *gorm.DB, dest interface{}, id uint) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSnapshotNotFound
		}
		return err
	}
	return nil
}

func deleteSnapshot(tx *gorm.DB, model interface{}, id uint) error {
	result := tx.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

func requireFundCategory(tx *gorm.DB, fundID uint, category string) error {
	fund, err := findFund(tx, fundID)
	if err != nil {
		return err
	}
	if fund.Category != category {
		return ErrSnapshotFundKind
	}
	return nil
}

func translateSnapshotError(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return ErrSnapshotExists
	case db.IsForeignKeyViolation(err):
		return ErrFundNotFound
	}
	return err
}

func validateMoneyMarketInput(input MoneyMarketInput) error {
	if input.FundID == 0 {
		return invalid("fundId", "is required")
	}
	if input.Month.IsZero() {
		return invalid("month", "is required")
	}
	if err := requireNonNegative("annualizedYield", input.AnnualizedYield); err != nil {
		return err
	}
	if err := requireNonNegative("fundSize", input.FundSize); err != nil {
		return err
	}
	if input.AverageMaturityDays < 0 {
		return invalid("averageMaturityDays", "must not be negative")
	}
	return validateWeights("allocation", []decimal.Decimal{
		input.CashAndDeposits,
		input.GovernmentSecurities,
		input.CorporateDebt,
	})
}

func validateEquityInput(input EquityInput) error {
	if input.FundID == 0 {
		return invalid("fundId", "is required")
	}
	if input.Month.IsZero() {
		return invalid("month", "is required")
	}
	if err := requirePositive("navPerUnit", input.NAVPerUnit); err != nil {
		return err
	}
	if err := requireNonNegative("fundSize", input.FundSize); err != nil {
		return err
	}

	holdings := make([]decimal.Decimal, 0, len(input.TopHoldings))
	for _, holding := range input.TopHoldings {
		if holding.Name == "" {
			return invalid("topHoldings", "name is required")
		}
		holdings = append(holdings, holding.Weight)
	}
	if err := validateWeights("topHoldings", holdings); err != nil {
		return err
	}

	sectors := make([]decimal.Decimal, 0, len(input.SectorAllocation))
	for _, allocation := range input.SectorAllocation {
		if allocation.Sector == "" {
			return invalid("sectorAllocation", "sector is required")
		}
		sectors = append(sectors, allocation.Weight)
	}
	return validateWeights("sectorAllocation", sectors)
}

// validateWeights checks every percentage is non-negative and the total does not exceed 100.
func validateWeights(field string, weights []decimal.Decimal) error {
	total := decimal.Zero
	for _, weight := range weights {
		if weight.IsNegative() {
			return invalid(field, "weights must not be negative")
		}
		total = total.Add(weight)
	}
	if total.GreaterThan(hundred) {
		return invalid(field, "weights must not exceed 100")
	}
	return nil
}

func applyMoneyMarketInput(snapshot *db.MoneyMarketSnapshot, input MoneyMarketInput) {
	snapshot.FundID = input.FundID
	snapshot.Fund = nil
	snapshot.Month = db.MonthStart(input.Month)
	snapshot.AnnualizedYield = input.AnnualizedYield
	snapshot.FundSize = input.FundSize
	snapshot.AverageMaturityDays = input.AverageMaturityDays
	snapshot.CashAndDeposits = input.CashAndDeposits
	snapshot.GovernmentSecurities = input.GovernmentSecurities
	snapshot.CorporateDebt = input.CorporateDebt
}

func applyEquityInput(snapshot *db.EquitySnapshot, input EquityInput) {
	snapshot.FundID = input.FundID
	snapshot.Fund = nil
	snapshot.Month = db.MonthStart(input.Month)
	snapshot.NAVPerUnit = input.NAVPerUnit
	snapshot.FundSize = input.FundSize
	snapshot.YTDReturn = input.YTDReturn
	snapshot.OneYearReturn = input.OneYearReturn
	snapshot.BenchmarkReturn = input.BenchmarkReturn
	snapshot.TopHoldings = input.TopHoldings
	snapshot.SectorAllocation = input.SectorAllocation
	if snapshot.TopHoldings == nil {
		snapshot.TopHoldings = []db.Holding{}
	}
	if snapshot.SectorAllocation == nil {
		snapshot.SectorAllocation = []db.Allocation{}
	}
}
