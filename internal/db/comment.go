package db

import "time"

// Comment 定义了评论模型。会员评论只设置 AuthorID，游客评论只设置
// AuthorName 与 PasswordHash，两者互斥。删除是逻辑删除：IsDeleted 置位后
// 所有读写路径都视评论为不存在，行本身保留用于审计。
//
// 不嵌入 gorm.Model，避免 gorm 的软删除语义与这里的显式逻辑删除混在一起。
type Comment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PostID       uint       `gorm:"not null;index" json:"postId"`
	AuthorID     *uint      `gorm:"index" json:"authorId,omitempty"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	AuthorName   string     `gorm:"size:64" json:"authorName,omitempty"`
	PasswordHash string     `gorm:"size:128" json:"-"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	IsDeleted    bool       `gorm:"default:false;index" json:"-"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName 指定自定义表名。
func (Comment) TableName() string {
	return "comments"
}
