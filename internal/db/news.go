package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// NewsPost 是新闻动态，删除为软删除。
type NewsPost struct {
	Model
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Slug          string         `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Excerpt       string         `gorm:"type:text" json:"excerpt"`
	Content       string         `gorm:"type:text" json:"content"`
	CoverImageURL string         `gorm:"size:255" json:"coverImageUrl"`
	Status        string         `gorm:"size:20;index;not null;default:draft" json:"status"`
	PublishedAt   *time.Time     `gorm:"index" json:"publishedAt"`
	Images        []NewsImage    `gorm:"constraint:OnDelete:CASCADE" json:"images"`
}

// NewsImage 是新闻正文中上传的配图。
type NewsImage struct {
	Model
	NewsPostID uint   `gorm:"index;not null" json:"newsPostId"`
	FilePath   string `gorm:"size:255;not null" json:"-"`
	URL        string `gorm:"size:255;not null" json:"url"`
	Caption    string `gorm:"size:255" json:"caption"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SortOrder  int    `gorm:"default:0" json:"sortOrder"`
}
