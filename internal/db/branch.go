package db

// Branch 是线下分支机构
type Branch struct {
	Model
	Name         string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Address      string `gorm:"size:255" json:"address"`
	City         string `gorm:"size:80;index" json:"city"`
	Phone        string `gorm:"size:50" json:"phone"`
	Email        string `gorm:"size:120" json:"email"`
	OpeningHours string `gorm:"size:120" json:"openingHours"`
	MapURL       string `gorm:"size:500" json:"mapUrl"`
	SortOrder    int    `gorm:"default:0" json:"sortOrder"`
	IsActive     bool   `gorm:"not null" json:"isActive"`
}
