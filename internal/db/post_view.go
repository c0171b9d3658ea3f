package db

import "time"

// PostView 记录一次被判定为有效的浏览，用于 24 小时滚动窗口去重。
// (post_id, visitor_id) 上的唯一索引是并发去重的正确性边界：
// 同一访客对同一文章的并发上报由存储层拒绝，而不是应用层。
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_visitor" json:"postId"`
	VisitorID string    `gorm:"size:64;not null;uniqueIndex:idx_post_visitor" json:"visitorId"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	SourceIP  string    `gorm:"size:64" json:"-"`
	ViewedAt  time.Time `gorm:"index" json:"viewedAt"`
	CreatedAt time.Time `json:"-"`
}

// TableName 指定自定义表名。
func (PostView) TableName() string {
	return "post_views"
}
