package db

import "gorm.io/gorm"

// Profile 定义站长个人资料，全站只维护一行。
type Profile struct {
	gorm.Model
	DisplayName string           `gorm:"size:64" json:"displayName"`
	Bio         string           `gorm:"type:text" json:"bio"`
	AvatarURL   string           `json:"avatarUrl"`
	Contacts    []ProfileContact `json:"contacts,omitempty"`
}

// ProfileContact 定义个人资料下的联系方式条目
type ProfileContact struct {
	gorm.Model
	ProfileID uint   `gorm:"not null;index" json:"profileId"`
	Label     string `gorm:"size:64;not null" json:"label"`
	URL       string `gorm:"not null" json:"url"`
	Icon      string `gorm:"size:64" json:"icon"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}
