package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/service"
)

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListCategories 返回分类列表：GET /api/categories。
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory 创建分类：POST /admin/api/categories。
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Create(req.Name, req.Slug)
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 更新分类：PUT /admin/api/categories/:id。
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Update(id, req.Name, req.Slug)
	if err != nil {
		a.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory 删除分类：DELETE /admin/api/categories/:id。
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		a.respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondError(c, http.StatusBadRequest, "category name is required")
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, http.StatusBadRequest, "category already exists")
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, http.StatusBadRequest, "category is associated with posts")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "category not found")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
