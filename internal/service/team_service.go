package service

import (
	"errors"
	"strings"

	"github.com/fundhouse/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamOrder          = errors.New("invalid team member order")
)

// TeamService manages board and management profiles.
type TeamService struct {
	db *gorm.DB
}

// TeamMemberInput represents fields accepted for a team member.
type TeamMemberInput struct {
	Name        string
	Position    string
	Group       string
	Bio         string
	PhotoURL    string
	LinkedInURL string
	SortOrder   *int
	IsActive    *bool
}

// NewTeamService creates a TeamService instance.
func NewTeamService(gdb *gorm.DB) *TeamService {
	return &TeamService{db: gdb}
}

// List returns team members of group (all groups when empty) in display order.
func (s *TeamService) List(group string, activeOnly bool) ([]db.TeamMember, error) {
	query := s.db.Model(&db.TeamMember{})
	if group = strings.ToLower(strings.TrimSpace(group)); group != "" {
		query = query.Where("team_group = ?", group)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	members := []db.TeamMember{}
	if err := query.Order("sort_order asc").Order("id asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Get fetches a team member by id.
func (s *TeamService) Get(id uint) (*db.TeamMember, error) {
	var member db.TeamMember
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Create inserts a new team member at the end of its group unless a sort order is given.
func (s *TeamService) Create(input TeamMemberInput) (*db.TeamMember, error) {
	input = normalizeTeamInput(input)
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	member := db.TeamMember{IsActive: true}
	applyTeamInput(&member, input)
	if input.SortOrder == nil {
		order, err := s.nextSortOrder(input.Group)
		if err != nil {
			return nil, err
		}
		member.SortOrder = order
	}

	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Update modifies an existing team member.
func (s *TeamService) Update(id uint, input TeamMemberInput) (*db.TeamMember, error) {
	input = normalizeTeamInput(input)
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	member, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyTeamInput(member, input)
	if err := s.db.Save(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a team member.
func (s *TeamService) Delete(id uint) error {
	result := s.db.Delete(&db.TeamMember{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

// Reorder updates sort order based on the provided ids sequence.
func (s *TeamService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrTeamOrder
		}
		if _, ok := seen[id]; ok {
			return ErrTeamOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.TeamMember{}).Where("id = ?", id).Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrTeamMemberNotFound
			}
		}
		return nil
	})
}

func (s *TeamService) nextSortOrder(group string) (int, error) {
	var maxSort int
	if err := s.db.Model(&db.TeamMember{}).
		Where("team_group = ?", group).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxSort).Error; err != nil {
		return 0, err
	}
	return maxSort + 1, nil
}

func normalizeTeamInput(input TeamMemberInput) TeamMemberInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Position = strings.TrimSpace(input.Position)
	input.Group = strings.ToLower(strings.TrimSpace(input.Group))
	input.Bio = strings.TrimSpace(input.Bio)
	input.PhotoURL = strings.TrimSpace(input.PhotoURL)
	input.LinkedInURL = strings.TrimSpace(input.LinkedInURL)
	if input.Group == "" {
		input.Group = db.TeamGroupManagement
	}
	return input
}

func validateTeamInput(input TeamMemberInput) error {
	if input.Name == "" {
		return invalid("name", "is required")
	}
	if input.Position == "" {
		return invalid("position", "is required")
	}
	return requireOneOf("group", input.Group, db.TeamGroups)
}

func applyTeamInput(member *db.TeamMember, input TeamMemberInput) {
	member.Name = input.Name
	member.Position = input.Position
	member.Group = input.Group
	member.Bio = input.Bio
	member.PhotoURL = input.PhotoURL
	member.LinkedInURL = input.LinkedInURL
	if input.SortOrder != nil {
		member.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}
}
