package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title       string     `gorm:"size:200;not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Summary     string     `json:"summary"`
	Status      string     `gorm:"size:16;default:draft;index" json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CoverURL    string     `json:"coverUrl"`
	ReadingTime int        `json:"readingTime"`
	ViewCount   uint64     `gorm:"default:0" json:"viewCount"`
	UserID      uint       `json:"userId"`
	User        User       `json:"author,omitempty"`
	CategoryID  *uint      `gorm:"index" json:"categoryId,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags;" json:"tags,omitempty"`
}
