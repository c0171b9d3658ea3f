package service

import (
	"errors"
	"strings"

	"github.com/lumenlog/internal/db"
	"gorm.io/gorm"
)

var ErrContactLabelRequired = errors.New("contact label is required")

// ProfileService 维护站长个人资料（单行）及联系方式。
type ProfileService struct {
	db *gorm.DB
}

// ProfileInput represents fields accepted when updating the profile.
type ProfileInput struct {
	DisplayName string
	Bio         string
	AvatarURL   string
	Contacts    []ContactInput
}

// ContactInput represents a single contact entry.
type ContactInput struct {
	Label     string
	URL       string
	Icon      string
	SortOrder int
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Get 返回个人资料，不存在时返回空资料而不是错误。
func (s *ProfileService) Get() (*db.Profile, error) {
	var profile db.Profile
	err := s.db.Preload("Contacts", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order asc").Order("id asc")
	}).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &db.Profile{}, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Update 覆盖式更新个人资料与联系方式列表。
func (s *ProfileService) Update(input ProfileInput) (*db.Profile, error) {
	contacts := make([]db.ProfileContact, 0, len(input.Contacts))
	for _, contact := range input.Contacts {
		label := strings.TrimSpace(contact.Label)
		if label == "" {
			return nil, ErrContactLabelRequired
		}
		contacts = append(contacts, db.ProfileContact{
			Label:     label,
			URL:       strings.TrimSpace(contact.URL),
			Icon:      strings.TrimSpace(contact.Icon),
			SortOrder: contact.SortOrder,
		})
	}

	var profile db.Profile
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			profile = db.Profile{}
		}

		profile.DisplayName = strings.TrimSpace(input.DisplayName)
		profile.Bio = input.Bio
		profile.AvatarURL = strings.TrimSpace(input.AvatarURL)

		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		if err := tx.Where("profile_id = ?", profile.ID).Delete(&db.ProfileContact{}).Error; err != nil {
			return err
		}

		for i := range contacts {
			contacts[i].ProfileID = profile.ID
		}
		if len(contacts) > 0 {
			if err := tx.Create(&contacts).Error; err != nil {
				return err
			}
		}

		profile.Contacts = contacts
		return nil
	}); err != nil {
		return nil, err
	}

	return &profile, nil
}
