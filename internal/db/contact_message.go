package db

import "time"

// ContactMessage 保存前台联系表单提交的留言
type ContactMessage struct {
	Model
	Name     string     `gorm:"size:120;not null" json:"name"`
	Email    string     `gorm:"size:120;not null" json:"email"`
	Phone    string     `gorm:"size:50" json:"phone"`
	Subject  string     `gorm:"size:200" json:"subject"`
	Message  string     `gorm:"type:text;not null" json:"message"`
	BranchID *uint      `gorm:"index" json:"branchId"`
	Branch   *Branch    `gorm:"constraint:OnDelete:SET NULL" json:"branch,omitempty"`
	IsRead   bool       `gorm:"not null;default:false;index" json:"isRead"`
	ReadAt   *time.Time `json:"readAt"`
}
