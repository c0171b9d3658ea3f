package db

import "gorm.io/gorm"

// Category 定义了文章分类模型
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:64;not null" json:"slug"`

	PostCount int64 `gorm:"-" json:"postCount"`
}
