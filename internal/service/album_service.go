package service

import (
	"errors"
	"strings"

	"github.com/lumenlog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrAlbumNotFound        = errors.New("album not found")
	ErrAlbumTitleRequired   = errors.New("album title is required")
	ErrAlbumStatusInvalid   = errors.New("album status is invalid")
	ErrAlbumImageNotFound   = errors.New("album image not found")
	ErrAlbumImageURLMissing = errors.New("album image url is required")
)

// AlbumService handles album and album image CRUD.
type AlbumService struct {
	db *gorm.DB
}

// AlbumFilter describes filters for listing albums.
type AlbumFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// AlbumListResult aggregates paginated album results.
type AlbumListResult struct {
	Items      []db.Album
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// AlbumInput represents fields accepted when creating or updating an album.
type AlbumInput struct {
	Title       string
	Description string
	CoverURL    string
	Status      string
	SortOrder   int
}

// AlbumImageInput represents fields accepted for an album image.
type AlbumImageInput struct {
	Title       string
	Description string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	SortOrder   int
}

// NewAlbumService creates an AlbumService instance.
func NewAlbumService(gdb *gorm.DB) *AlbumService {
	return &AlbumService{db: gdb}
}

// List returns albums matching the filter.
func (s *AlbumService) List(filter AlbumFilter) (AlbumListResult, error) {
	result := AlbumListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 12),
	}

	query := s.db.Model(&db.Album{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.
		Order("sort_order desc").
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches an album with its images ordered by priority.
func (s *AlbumService) Get(id uint) (*db.Album, error) {
	var album db.Album
	if err := s.db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order desc").Order("created_at desc")
	}).First(&album, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return &album, nil
}

// GetPublished fetches an album and rejects drafts.
func (s *AlbumService) GetPublished(id uint) (*db.Album, error) {
	album, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if album.Status != db.AlbumStatusPublished {
		return nil, ErrAlbumNotFound
	}
	return album, nil
}

// Create inserts a new album.
func (s *AlbumService) Create(input AlbumInput) (*db.Album, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrAlbumTitleRequired
	}

	status, err := normalizeAlbumStatus(input.Status)
	if err != nil {
		return nil, err
	}

	album := db.Album{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CoverURL:    strings.TrimSpace(input.CoverURL),
		Status:      status,
		SortOrder:   input.SortOrder,
	}
	if err := s.db.Create(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// Update applies updates to an existing album.
func (s *AlbumService) Update(id uint, input AlbumInput) (*db.Album, error) {
	album, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrAlbumTitleRequired
	}

	status, err := normalizeAlbumStatus(input.Status)
	if err != nil {
		return nil, err
	}

	album.Title = title
	album.Description = strings.TrimSpace(input.Description)
	album.CoverURL = strings.TrimSpace(input.CoverURL)
	album.Status = status
	album.SortOrder = input.SortOrder

	if err := s.db.Save(album).Error; err != nil {
		return nil, err
	}
	return album, nil
}

// Delete removes an album together with its images.
func (s *AlbumService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&db.AlbumImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&db.Album{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlbumNotFound
		}
		return nil
	})
}

// AddImage appends an image to an album.
func (s *AlbumService) AddImage(albumID uint, input AlbumImageInput) (*db.AlbumImage, error) {
	if _, err := s.Get(albumID); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return nil, ErrAlbumImageURLMissing
	}

	image := db.AlbumImage{
		AlbumID:     albumID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    imageURL,
		ImageWidth:  input.ImageWidth,
		ImageHeight: input.ImageHeight,
		SortOrder:   input.SortOrder,
	}
	if err := s.db.Create(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// UpdateImage applies updates to an album image.
func (s *AlbumService) UpdateImage(imageID uint, input AlbumImageInput) (*db.AlbumImage, error) {
	var image db.AlbumImage
	if err := s.db.First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumImageNotFound
		}
		return nil, err
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return nil, ErrAlbumImageURLMissing
	}

	image.Title = strings.TrimSpace(input.Title)
	image.Description = strings.TrimSpace(input.Description)
	image.ImageURL = imageURL
	image.ImageWidth = input.ImageWidth
	image.ImageHeight = input.ImageHeight
	image.SortOrder = input.SortOrder

	if err := s.db.Save(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage removes a single album image.
func (s *AlbumService) DeleteImage(imageID uint) error {
	result := s.db.Delete(&db.AlbumImage{}, imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlbumImageNotFound
	}
	return nil
}

func normalizeAlbumStatus(status string) (string, error) {
	trimmed := strings.TrimSpace(status)
	switch trimmed {
	case "":
		return db.AlbumStatusDraft, nil
	case db.AlbumStatusDraft, db.AlbumStatusPublished:
		return trimmed, nil
	default:
		return "", ErrAlbumStatusInvalid
	}
}
