package service

import (
	"errors"
	"strings"
	"time"

	"github.com/fundhouse/internal/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrFundNotFound = errors.New("fund not found")
	ErrFundExists   = errors.New("fund name or code already exists")
	ErrFundInUse    = errors.New("fund has prices or snapshots")
)

// FundService wraps fund related operations.
type FundService struct {
	db *gorm.DB
}

// FundFilter narrows fund listings.
type FundFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
}

// FundInput represents fields accepted when creating or updating a fund.
type FundInput struct {
	Name          string
	Slug          string
	Code          string
	Category      string
	Description   string
	Objective     string
	RiskLevel     string
	InceptionDate *time.Time
	ManagementFee decimal.Decimal
	TrusteeFee    decimal.Decimal
	MinInvestment decimal.Decimal
	IsActive      *bool
	SortOrder     int
}

// FundWithPrice pairs a fund with its most recent published price.
type FundWithPrice struct {
	db.Fund
	LatestPrice *db.FundPrice `json:"latestPrice"`
}

// NewFundService creates a FundService instance.
func NewFundService(gdb *gorm.DB) *FundService {
	return &FundService{db: gdb}
}

// List returns funds ordered by sort order then name.
func (s *FundService) List(filter FundFilter) ([]db.Fund, error) {
	query := s.db.Model(&db.Fund{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	funds := []db.Fund{}
	if err := query.Order("sort_order asc").Order("name asc").Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

// ListWithLatestPrice returns funds matching filter with their latest price attached.
func (s *FundService) ListWithLatestPrice(filter FundFilter) ([]FundWithPrice, error) {
	funds, err := s.List(filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(funds))
	for _, fund := range funds {
		ids = append(ids, fund.ID)
	}

	prices, err := latestPrices(s.db, ids)
	if err != nil {
		return nil, err
	}
	byFund := make(map[uint]*db.FundPrice, len(prices))
	for i := range prices {
		prices[i].Fund = nil
		byFund[prices[i].FundID] = &prices[i]
	}

	result := make([]FundWithPrice, 0, len(funds))
	for _, fund := range funds {
		result = append(result, FundWithPrice{Fund: fund, LatestPrice: byFund[fund.ID]})
	}
	return result, nil
}

// Get fetches a fund by id.
func (s *FundService) Get(id uint) (*db.Fund, error) {
	return findFund(s.db, id)
}

// GetBySlug fetches an active fund by slug.
func (s *FundService) GetBySlug(slug string) (*db.Fund, error) {
	var fund db.Fund
	if err := s.db.Where("slug = ? AND is_active = ?", strings.TrimSpace(slug), true).First(&fund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

// Create inserts a new fund with unique name, code and slug.
func (s *FundService) Create(input FundInput) (*db.Fund, error) {
	input = normalizeFundInput(input)
	if err := validateFundInput(input); err != nil {
		return nil, err
	}

	fund := db.Fund{IsActive: true}
	applyFundInput(&fund, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureFundUnique(tx, input, 0); err != nil {
			return err
		}
		slugBase := input.Slug
		if slugBase == "" {
			slugBase = input.Name
		}
		slug, err := uniqueSlug(tx, &db.Fund{}, slugBase, "fund", 0)
		if err != nil {
			return err
		}
		fund.Slug = slug
		return tx.Create(&fund).Error
	})
	if err != nil {
		return nil, translateFundError(err)
	}
	return &fund, nil
}

// Update modifies an existing fund.
func (s *FundService) Update(id uint, input FundInput) (*db.Fund, error) {
	input = normalizeFundInput(input)
	if err := validateFundInput(input); err != nil {
		return nil, err
	}

	var fund *db.Fund
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findFund(tx, id)
		if err != nil {
			return err
		}
		if err := ensureFundUnique(tx, input, id); err != nil {
			return err
		}

		if input.Slug != "" && input.Slug != existing.Slug {
			slug, err := uniqueSlug(tx, &db.Fund{}, input.Slug, "fund", id)
			if err != nil {
				return err
			}
			existing.Slug = slug
		}

		applyFundInput(existing, input)
		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		fund = existing
		return nil
	})
	if err != nil {
		return nil, translateFundError(err)
	}
	return fund, nil
}

// Delete removes a fund that has no prices or snapshots.
func (s *FundService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		fund, err := findFund(tx, id)
		if err != nil {
			return err
		}

		for _, model := range []interface{}{&db.FundPrice{}, &db.MoneyMarketSnapshot{}, &db.EquitySnapshot{}} {
			var count int64
			if err := tx.Model(model).Where("fund_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrFundInUse
			}
		}

		if err := tx.Model(&db.FundReport{}).Where("fund_id = ?", id).Update("fund_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(fund).Error; err != nil {
			if db.IsForeignKeyViolation(err) {
				return ErrFundInUse
			}
			return err
		}
		return nil
	})
}

// Count returns the number of funds.
func (s *FundService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.Fund{}).Count(&count).Error
	return count, err
}

func findFund(tx *gorm.DB, id uint) (*db.Fund, error) {
	if id == 0 {
		return nil, ErrFundNotFound
	}
	var fund db.Fund
	if err := tx.First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func ensureFundUnique(tx *gorm.DB, input FundInput, excludeID uint) error {
	var count int64
	query := tx.Model(&db.Fund{}).Where("name = ? OR code = ?", input.Name, input.Code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrFundExists
	}
	return nil
}

func translateFundError(err error) error {
	if db.IsUniqueViolation(err) {
		return ErrFundExists
	}
	return err
}

func normalizeFundInput(input FundInput) FundInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = Slugify(input.Slug)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.Category = strings.ToLower(strings.TrimSpace(input.Category))
	input.Description = strings.TrimSpace(input.Description)
	input.Objective = strings.TrimSpace(input.Objective)
	input.RiskLevel = strings.ToLower(strings.TrimSpace(input.RiskLevel))
	if input.InceptionDate != nil {
		day := db.DateOnly(*input.InceptionDate)
		input.InceptionDate = &day
	}
	return input
}

func validateFundInput(input FundInput) error {
	if input.Name == "" {
		return invalid("name", "is required")
	}
	if input.Code == "" {
		return invalid("code", "is required")
	}
	if err := requireOneOf("category", input.Category, db.FundCategories); err != nil {
		return err
	}
	if input.RiskLevel != "" {
		if err := requireOneOf("riskLevel", input.RiskLevel, []string{db.RiskLevelLow, db.RiskLevelMedium, db.RiskLevelHigh}); err != nil {
			return err
		}
	}
	if err := requireNonNegative("managementFee", input.ManagementFee); err != nil {
		return err
	}
	if err := requireNonNegative("trusteeFee", input.TrusteeFee); err != nil {
		return err
	}
	if err := requireNonNegative("minInvestment", input.MinInvestment); err != nil {
		return err
	}
	return nil
}

func applyFundInput(fund *db.Fund, input FundInput) {
	fund.Name = input.Name
	fund.Code = input.Code
	fund.Category = input.Category
	fund.Description = input.Description
	fund.Objective = input.Objective
	fund.RiskLevel = input.RiskLevel
	fund.InceptionDate = input.InceptionDate
	fund.ManagementFee = input.ManagementFee
	fund.TrusteeFee = input.TrusteeFee
	fund.MinInvestment = input.MinInvestment
	fund.SortOrder = input.SortOrder
	if input.IsActive != nil {
		fund.IsActive = *input.IsActive
	}
}
