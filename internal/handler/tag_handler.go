package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/service"
)

type tagRequest struct {
	Name string `json:"name"`
}

// ListPublicTags 返回已发布文章使用到的标签：GET /api/tags。
func (a *API) ListPublicTags(c *gin.Context) {
	usages, err := a.tags.PublishedUsage()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list tags")
		return
	}

	items := make([]gin.H, 0, len(usages))
	for _, usage := range usages {
		items = append(items, gin.H{"id": usage.ID, "name": usage.Name, "postCount": usage.Count})
	}

	c.JSON(http.StatusOK, gin.H{"tags": items})
}

// GetTags 返回后台标签列表：GET /admin/api/tags。
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag 创建标签：POST /admin/api/tags。
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "invalid tag payload") {
		return
	}

	tag, err := a.tags.Create(req.Name)
	if err != nil {
		a.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// UpdateTag 重命名标签：PUT /admin/api/tags/:id。
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "tag not found")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "invalid tag payload") {
		return
	}

	tag, err := a.tags.Update(id, req.Name)
	if err != nil {
		a.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DeleteTag 删除标签：DELETE /admin/api/tags/:id。
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "tag not found")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		a.respondTagError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTagNameRequired):
		respondError(c, http.StatusBadRequest, "tag name is required")
	case errors.Is(err, service.ErrTagExists):
		respondError(c, http.StatusBadRequest, "tag already exists")
	case errors.Is(err, service.ErrTagInUse):
		respondError(c, http.StatusBadRequest, "tag is associated with posts")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusNotFound, "tag not found")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
