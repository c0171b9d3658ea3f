package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/service"
)

type profileRequest struct {
	DisplayName string           `json:"displayName"`
	Bio         string           `json:"bio"`
	AvatarURL   string           `json:"avatarUrl"`
	Contacts    []contactRequest `json:"contacts"`
}

type contactRequest struct {
	Label     string `json:"label"`
	URL       string `json:"url"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

// GetProfile 返回站长资料：GET /api/profile。
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 更新站长资料：PUT /admin/api/profile。
func (a *API) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	contacts := make([]service.ContactInput, 0, len(req.Contacts))
	for _, contact := range req.Contacts {
		contacts = append(contacts, service.ContactInput{
			Label:     contact.Label,
			URL:       contact.URL,
			Icon:      contact.Icon,
			SortOrder: contact.SortOrder,
		})
	}

	profile, err := a.profiles.Update(service.ProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Contacts:    contacts,
	})
	if err != nil {
		if errors.Is(err, service.ErrContactLabelRequired) {
			respondError(c, http.StatusBadRequest, "contact label is required")
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
