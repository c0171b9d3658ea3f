package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lumenlog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrPostTitleRequired   = errors.New("post title is required")
	ErrInvalidPublishState = errors.New("post is missing required fields for publishing")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search     string
	Status     string
	TagNames   []string
	CategoryID *uint
	Page       int
	PerPage    int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title      string
	Content    string
	Summary    string
	CoverURL   string
	TagIDs     []uint
	CategoryID *uint
	UserID     uint
}

// TopPostStat 描述热门文章的统计信息。
type TopPostStat struct {
	PostID    uint
	Title     string
	ViewCount uint64
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Get fetches a post by id with associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublished fetches a post and rejects drafts.
func (s *PostService) GetPublished(id uint) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if post.Status != db.PostStatusPublished {
		return nil, ErrPostNotPublished
	}
	return post, nil
}

// Create persists a post as draft and associates tags in a transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	post := db.Post{
		Title:       title,
		Content:     input.Content,
		Summary:     strings.TrimSpace(input.Summary),
		Status:      db.PostStatusDraft,
		CoverURL:    strings.TrimSpace(input.CoverURL),
		ReadingTime: calculateReadingTime(input.Content),
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
	}

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	existing.Title = title
	existing.Content = input.Content
	existing.Summary = strings.TrimSpace(input.Summary)
	existing.CoverURL = strings.TrimSpace(input.CoverURL)
	existing.ReadingTime = calculateReadingTime(input.Content)
	existing.CategoryID = input.CategoryID

	return s.saveWithTags(&existing, input.TagIDs)
}

// Delete removes a post together with its view records and comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.PostView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// Publish 将文章置为已发布，首次发布时落下发布时间。
func (s *PostService) Publish(id uint, publishedAt *time.Time) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
		return nil, ErrInvalidPublishState
	}

	publishTime := time.Now().UTC()
	if publishedAt != nil && !publishedAt.IsZero() {
		publishTime = *publishedAt
	}
	if post.PublishedAt != nil {
		publishTime = *post.PublishedAt
	}

	if err := s.db.Model(&db.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       db.PostStatusPublished,
			"published_at": publishTime,
		}).Error; err != nil {
		return nil, err
	}

	post.Status = db.PostStatusPublished
	post.PublishedAt = &publishTime
	return post, nil
}

// Unpublish 将文章退回草稿状态。
func (s *PostService) Unpublish(id uint) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Post{}).
		Where("id = ?", id).
		Update("status", db.PostStatusDraft).Error; err != nil {
		return nil, err
	}

	post.Status = db.PostStatusDraft
	return post, nil
}

// List provides paginated posts with aggregated counters based on filters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	modelQuery := s.applyFilters(s.db.Model(&db.Post{}), filter, true)
	if err := modelQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	orderBy := "posts.created_at desc"
	if strings.EqualFold(filter.Status, db.PostStatusPublished) {
		orderBy = "posts.published_at desc, posts.id desc"
	}

	var posts []db.Post
	dataQuery := s.applyFilters(
		s.db.Model(&db.Post{}).Preload("Tags").Preload("Category").Preload("User"),
		filter, true,
	)
	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""
	baseCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)

	if err := baseCounter.Where("posts.status = ?", db.PostStatusPublished).Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := baseCounter.Where("posts.status = ?", db.PostStatusDraft).Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	result.Posts = posts
	return result, nil
}

// TopByViews 返回浏览量最高的已发布文章。
func (s *PostService) TopByViews(limit int) ([]TopPostStat, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []TopPostStat
	if err := s.db.Model(&db.Post{}).
		Select("posts.id AS post_id, posts.title, posts.view_count").
		Where("posts.status = ?", db.PostStatusPublished).
		Order("posts.view_count desc").
		Order("posts.id asc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	return post, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").Preload("Category").First(post, post.ID).Error
	})
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ? OR posts.summary LIKE ?)", search, search, search)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.CategoryID != nil {
		query = query.Where("posts.category_id = ?", *filter.CategoryID)
	}

	if len(filter.TagNames) > 0 {
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("JOIN post_tags ON posts.id = post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", filter.TagNames).
			Distinct()

		query = query.Where("posts.id IN (?)", subQuery)
	}

	return query
}

func calculateReadingTime(content string) int {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}

	runes := []rune(trimmed)
	minutes := len(runes) / 400
	if len(runes)%400 != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
