package db

import "gorm.io/gorm"

// SystemSetting 存储后台可配置的系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	SettingKeyContactAddress     = "contact_address"
	SettingKeyContactPhone       = "contact_phone"
	SettingKeyContactHotline     = "contact_hotline"
	SettingKeyContactEmail       = "contact_email"
	SettingKeyContactWhatsApp    = "contact_whatsapp"
	SettingKeyContactOfficeHours = "contact_office_hours"
	SettingKeyContactMapEmbedURL = "contact_map_embed_url"
	SettingKeyContactFacebookURL = "contact_facebook_url"
	SettingKeyContactLinkedInURL = "contact_linkedin_url"
)
