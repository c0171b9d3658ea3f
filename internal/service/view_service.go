package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lumenlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultViewDedupWindow 是浏览去重的默认滚动窗口长度。
// 短效浏览标记 Cookie 的有效期与它保持一致，避免快慢路径判定漂移。
const DefaultViewDedupWindow = 24 * time.Hour

var ErrPostNotPublished = errors.New("post is not published")

// ViewService 负责处理文章浏览去重与计数。
type ViewService struct {
	db          *gorm.DB
	dedupWindow time.Duration
}

// ViewResult 描述一次浏览上报的处理结果。
// Counted 为 false 时表示窗口内重复，ViewCount 为当前计数。
type ViewResult struct {
	Counted   bool
	ViewCount uint64
}

// NewViewService 创建 ViewService，默认去重窗口为 24 小时。
func NewViewService(gdb *gorm.DB) *ViewService {
	return &ViewService{db: gdb, dedupWindow: DefaultViewDedupWindow}
}

// WithDedupWindow 允许在测试或特定场景下调整去重窗口。
func (s *ViewService) WithDedupWindow(d time.Duration) *ViewService {
	if d <= 0 {
		return s
	}
	s.dedupWindow = d
	return s
}

// DedupWindow 返回当前配置的去重窗口。
func (s *ViewService) DedupWindow() time.Duration {
	return s.dedupWindow
}

// RecordView 判定一次浏览是否计为新的有效浏览。
//
// 判定顺序：文章必须存在且已发布；窗口内已有同访客或同用户的记录则判为
// 重复；否则尝试插入浏览记录，插入由 (post_id, visitor_id) 唯一索引保护，
// 与并发请求撞索引同样判为重复而不是错误；插入成功后原子递增文章计数。
func (s *ViewService) RecordView(postID uint, visitorID string, userID *uint, sourceIP string, now time.Time) (*ViewResult, error) {
	if postID == 0 || strings.TrimSpace(visitorID) == "" {
		return nil, errors.New("invalid post or visitor id")
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Status != db.PostStatusPublished {
		return nil, ErrPostNotPublished
	}

	windowStart := now.Add(-s.dedupWindow)

	dupQuery := s.db.Model(&db.PostView{}).
		Where("post_id = ? AND viewed_at > ?", postID, windowStart)
	if userID != nil {
		dupQuery = dupQuery.Where("visitor_id = ? OR user_id = ?", visitorID, *userID)
	} else {
		dupQuery = dupQuery.Where("visitor_id = ?", visitorID)
	}

	var matched int64
	if err := dupQuery.Count(&matched).Error; err != nil {
		return nil, err
	}
	if matched > 0 {
		return &ViewResult{Counted: false, ViewCount: post.ViewCount}, nil
	}

	view := db.PostView{
		PostID:    postID,
		VisitorID: visitorID,
		UserID:    userID,
		SourceIP:  sourceIP,
		ViewedAt:  now,
	}
	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "visitor_id"}},
		DoNothing: true,
	}).Create(&view)
	if insert.Error != nil {
		return nil, insert.Error
	}
	if insert.RowsAffected == 0 {
		// 撞上唯一索引：同访客的记录已经存在，按重复处理
		return &ViewResult{Counted: false, ViewCount: post.ViewCount}, nil
	}

	if err := s.db.Model(&db.Post{}).
		Where("id = ?", postID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return nil, err
	}

	var refreshed db.Post
	if err := s.db.Select("view_count").First(&refreshed, postID).Error; err != nil {
		return nil, err
	}

	return &ViewResult{Counted: true, ViewCount: refreshed.ViewCount}, nil
}
