package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/db"
	"github.com/lumenlog/internal/service"
)

type postRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Summary    string `json:"summary"`
	CoverURL   string `json:"coverUrl"`
	TagIDs     []uint `json:"tagIds"`
	CategoryID *uint  `json:"categoryId"`
}

// ListPublishedPosts 返回前台文章列表：GET /api/posts。
func (a *API) ListPublishedPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   db.PostStatusPublished,
		TagNames: c.QueryArray("tags"),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}
	filter.CategoryID = parseOptionalUint(c.Query("categoryId"))

	result, err := a.posts.List(filter)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      result.Posts,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// GetPublishedPost 返回前台文章详情（含渲染后的 HTML）：GET /api/posts/:id。
func (a *API) GetPublishedPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	post, err := a.posts.GetPublished(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrPostNotPublished):
			respondError(c, http.StatusNotFound, "post not found")
		default:
			c.Error(err)
			respondError(c, http.StatusInternalServerError, "failed to load post")
		}
		return
	}

	htmlContent, err := renderMarkdown(post.Content)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to render post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": post,
		"html": htmlContent,
	})
}

// GetPosts 返回后台文章列表：GET /admin/api/posts。
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
		TagNames: c.QueryArray("tags"),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("perPage", "10"), 10),
	}
	filter.CategoryID = parseOptionalUint(c.Query("categoryId"))

	result, err := a.posts.List(filter)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          result.Posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"page":           result.Page,
		"perPage":        result.PerPage,
		"totalPages":     result.TotalPages,
	})
}

// GetPost 返回后台文章详情：GET /admin/api/posts/:id。
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost 创建文章（草稿）：POST /admin/api/posts。
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	input := postInputFromRequest(req)
	if userID := currentUserID(c); userID != nil {
		input.UserID = *userID
	}

	post, err := a.posts.Create(input)
	if err != nil {
		a.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost 更新文章：PUT /admin/api/posts/:id。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	post, err := a.posts.Update(id, postInputFromRequest(req))
	if err != nil {
		a.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost 删除文章：DELETE /admin/api/posts/:id。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PublishPost 发布文章：POST /admin/api/posts/:id/publish。
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	post, err := a.posts.Publish(id, nil)
	if err != nil {
		a.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// UnpublishPost 将文章退回草稿：POST /admin/api/posts/:id/unpublish。
func (a *API) UnpublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	post, err := a.posts.Unpublish(id)
	if err != nil {
		a.respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *API) respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrPostTitleRequired):
		respondError(c, http.StatusBadRequest, "post title is required")
	case errors.Is(err, service.ErrInvalidPublishState):
		respondError(c, http.StatusBadRequest, "post is missing required fields for publishing")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "one or more tags do not exist")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func postInputFromRequest(req postRequest) service.PostInput {
	return service.PostInput{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CoverURL:   req.CoverURL,
		TagIDs:     req.TagIDs,
		CategoryID: req.CategoryID,
	}
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(value)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

func parseOptionalUint(value string) *uint {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil || parsed == 0 {
		return nil
	}
	id := uint(parsed)
	return &id
}
