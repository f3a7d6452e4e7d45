package service

import (
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/fundhouse/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContactMessageNotFound = errors.New("contact message not found")
)

// ContactService handles public enquiries and the contact details shown on the site.
type ContactService struct {
	db     *gorm.DB
	policy *bluemonday.Policy
	now    func() time.Time
}

// ContactMessageInput is a public enquiry.
type ContactMessageInput struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	BranchID *uint
}

// ContactMessageFilter narrows the admin inbox.
type ContactMessageFilter struct {
	UnreadOnly bool
	Page       int
	PerPage    int
}

// ContactSettings 描述前台联系页展示的公司联系方式。
type ContactSettings struct {
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Hotline     string `json:"hotline"`
	Email       string `json:"email"`
	WhatsApp    string `json:"whatsApp"`
	OfficeHours string `json:"officeHours"`
	MapEmbedURL string `json:"mapEmbedUrl"`
	FacebookURL string `json:"facebookUrl"`
	LinkedInURL string `json:"linkedInUrl"`
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb, policy: bluemonday.StrictPolicy(), now: time.Now}
}

// Submit stores a public enquiry with markup stripped.
func (s *ContactService) Submit(input ContactMessageInput) (*db.ContactMessage, error) {
	message := db.ContactMessage{
		Name:    s.clean(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   s.clean(input.Phone),
		Subject: s.clean(input.Subject),
		Message: s.clean(input.Message),
	}
	if input.BranchID != nil && *input.BranchID != 0 {
		id := *input.BranchID
		message.BranchID = &id
	}

	if message.Name == "" {
		return nil, invalid("name", "is required")
	}
	if _, err := mail.ParseAddress(message.Email); err != nil || message.Email == "" {
		return nil, invalid("email", "is not a valid email address")
	}
	if message.Message == "" {
		return nil, invalid("message", "is required")
	}

	if message.BranchID != nil {
		if _, err := findBranch(s.db, *message.BranchID); err != nil {
			return nil, err
		}
	}

	if err := s.db.Create(&message).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &message, nil
}

const maxCleanPasses = 4

// clean strips markup, including entity-encoded markup, and returns plain text.
func (s *ContactService) clean(value string) string {
	for i := 0; i < maxCleanPasses; i++ {
		sanitized := s.policy.Sanitize(html.UnescapeString(value))
		plain := html.UnescapeString(sanitized)
		if plain == value {
			return strings.TrimSpace(plain)
		}
		value = plain
	}
	// 仍未收敛时保留转义后的文本
	return strings.TrimSpace(s.policy.Sanitize(value))
}

// List returns messages newest first.
func (s *ContactService) List(filter ContactMessageFilter) (ListResult[db.ContactMessage], error) {
	result := newListResult[db.ContactMessage](filter.Page, filter.PerPage, 20)

	query := s.db.Model(&db.ContactMessage{})
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	if err := query.Preload("Branch").
		Order("created_at desc").
		Order("id desc").
		Limit(result.PerPage).
		Offset(result.offset()).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	result.finish()
	return result, nil
}

// Get fetches a message by id.
func (s *ContactService) Get(id uint) (*db.ContactMessage, error) {
	var message db.ContactMessage
	if err := s.db.Preload("Branch").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// MarkRead flags a message as read; already read messages keep their original timestamp.
func (s *ContactService) MarkRead(id uint) (*db.ContactMessage, error) {
	message, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if message.IsRead {
		return message, nil
	}

	now := s.now().UTC()
	if err := s.db.Model(message).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error; err != nil {
		return nil, err
	}
	message.IsRead = true
	message.ReadAt = &now
	return message, nil
}

// Delete removes a message.
func (s *ContactService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactMessageNotFound
	}
	return nil
}

// UnreadCount returns the number of unread messages.
func (s *ContactService) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&db.ContactMessage{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (c *ContactSettings) fields() map[string]*string {
	return map[string]*string{
		db.SettingKeyContactAddress:     &c.Address,
		db.SettingKeyContactPhone:       &c.Phone,
		db.SettingKeyContactHotline:     &c.Hotline,
		db.SettingKeyContactEmail:       &c.Email,
		db.SettingKeyContactWhatsApp:    &c.WhatsApp,
		db.SettingKeyContactOfficeHours: &c.OfficeHours,
		db.SettingKeyContactMapEmbedURL: &c.MapEmbedURL,
		db.SettingKeyContactFacebookURL: &c.FacebookURL,
		db.SettingKeyContactLinkedInURL: &c.LinkedInURL,
	}
}

// GetSettings 读取联系方式设置，未设置的字段为空字符串。
func (s *ContactService) GetSettings() (ContactSettings, error) {
	var result ContactSettings
	fields := result.fields()

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", keys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load contact settings: %w", err)
	}
	for _, record := range records {
		if target, ok := fields[record.Key]; ok {
			*target = record.Value
		}
	}
	return result, nil
}

// UpdateSettings 保存联系方式设置。
func (s *ContactService) UpdateSettings(input ContactSettings) (ContactSettings, error) {
	sanitized := input
	fields := sanitized.fields()
	for _, value := range fields {
		*value = strings.TrimSpace(*value)
	}
	if sanitized.Email != "" {
		if _, err := mail.ParseAddress(sanitized.Email); err != nil {
			return ContactSettings{}, invalid("email", "is not a valid email address")
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range fields {
			if err := upsertSetting(tx, key, *value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ContactSettings{}, fmt.Errorf("update contact settings: %w", err)
	}
	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
