package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_tags;" json:"-"`

	// PostCount 由列表查询聚合填充，不落库。
	PostCount int64 `gorm:"-" json:"postCount"`
}
