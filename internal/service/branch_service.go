package service

import (
	"errors"
	"strings"

	"github.com/fundhouse/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrBranchExists   = errors.New("branch already exists")
)

// BranchService manages branch offices.
type BranchService struct {
	db *gorm.DB
}

// BranchInput represents fields accepted for a branch.
type BranchInput struct {
	Name         string
	Address      string
	City         string
	Phone        string
	Email        string
	OpeningHours string
	MapURL       string
	SortOrder    int
	IsActive     *bool
}

// NewBranchService creates a BranchService instance.
func NewBranchService(gdb *gorm.DB) *BranchService {
	return &BranchService{db: gdb}
}

// List returns branches in display order.
func (s *BranchService) List(activeOnly bool) ([]db.Branch, error) {
	query := s.db.Model(&db.Branch{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	branches := []db.Branch{}
	if err := query.Order("sort_order asc").Order("name asc").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Get fetches a branch by id.
func (s *BranchService) Get(id uint) (*db.Branch, error) {
	return findBranch(s.db, id)
}

// Create inserts a branch with a unique name.
func (s *BranchService) Create(input BranchInput) (*db.Branch, error) {
	input = normalizeBranchInput(input)
	if input.Name == "" {
		return nil, invalid("name", "is required")
	}

	var existing db.Branch
	if err := s.db.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return nil, ErrBranchExists
	}

	branch := db.Branch{IsActive: true}
	applyBranchInput(&branch, input)
	if err := s.db.Create(&branch).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrBranchExists
		}
		return nil, err
	}
	return &branch, nil
}

// Update modifies a branch while keeping the name unique.
func (s *BranchService) Update(id uint, input BranchInput) (*db.Branch, error) {
	input = normalizeBranchInput(input)
	if input.Name == "" {
		return nil, invalid("name", "is required")
	}

	branch, err := findBranch(s.db, id)
	if err != nil {
		return nil, err
	}

	var existing db.Branch
	if err := s.db.Where("name = ? AND id <> ?", input.Name, id).First(&existing).Error; err == nil {
		return nil, ErrBranchExists
	}

	applyBranchInput(branch, input)
	if err := s.db.Save(branch).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrBranchExists
		}
		return nil, err
	}
	return branch, nil
}

// Delete removes a branch; messages addressed to it keep their content.
func (s *BranchService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		branch, err := findBranch(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&db.ContactMessage{}).Where("branch_id = ?", id).Update("branch_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(branch).Error
	})
}

func findBranch(tx *gorm.DB, id uint) (*db.Branch, error) {
	if id == 0 {
		return nil, ErrBranchNotFound
	}
	var branch db.Branch
	if err := tx.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &branch, nil
}

func normalizeBranchInput(input BranchInput) BranchInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.City = strings.TrimSpace(input.City)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.OpeningHours = strings.TrimSpace(input.OpeningHours)
	input.MapURL = strings.TrimSpace(input.MapURL)
	return input
}

func applyBranchInput(branch *db.Branch, input BranchInput) {
	branch.Name = input.Name
	branch.Address = input.Address
	branch.City = input.City
	branch.Phone = input.Phone
	branch.Email = input.Email
	branch.OpeningHours = input.OpeningHours
	branch.MapURL = input.MapURL
	branch.SortOrder = input.SortOrder
	if input.IsActive != nil {
		branch.IsActive = *input.IsActive
	}
}
