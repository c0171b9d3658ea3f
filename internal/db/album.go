package db

import "gorm.io/gorm"

const (
	AlbumStatusPublished = "published"
	AlbumStatusDraft     = "draft"
)

// Album 定义摄影作品相册模型
type Album struct {
	gorm.Model
	Title       string       `gorm:"size:128;not null" json:"title"`
	Description string       `json:"description"`
	CoverURL    string       `json:"coverUrl"`
	Status      string       `gorm:"size:16;default:draft;index" json:"status"`
	SortOrder   int          `gorm:"default:0" json:"sortOrder"`
	Images      []AlbumImage `json:"images,omitempty"`
}

// AlbumImage 定义相册内的单张图片
type AlbumImage struct {
	gorm.Model
	AlbumID     uint   `gorm:"not null;index" json:"albumId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `gorm:"not null" json:"imageUrl"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`
}
