package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/db"
	"github.com/lumenlog/internal/service"
)

type albumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	Status      string `json:"status"`
	SortOrder   int    `json:"sortOrder"`
}

type albumImageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
	SortOrder   int    `json:"sortOrder"`
}

// ListPublishedAlbums 返回前台相册列表：GET /api/albums。
func (a *API) ListPublishedAlbums(c *gin.Context) {
	result, err := a.albums.List(service.AlbumFilter{
		Status:  db.AlbumStatusPublished,
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("perPage", "12"), 12),
	})
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list albums")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"albums":     result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// GetPublishedAlbum 返回前台相册详情：GET /api/albums/:id。
func (a *API) GetPublishedAlbum(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album not found")
		return
	}

	album, err := a.albums.GetPublished(id)
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, album)
}

// GetAlbums 返回后台相册列表：GET /admin/api/albums。
func (a *API) GetAlbums(c *gin.Context) {
	result, err := a.albums.List(service.AlbumFilter{
		Status:  strings.TrimSpace(c.Query("status")),
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("perPage", "12"), 12),
	})
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list albums")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"albums":     result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"totalPages": result.TotalPages,
	})
}

// GetAlbum 返回后台相册详情：GET /admin/api/albums/:id。
func (a *API) GetAlbum(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album not found")
		return
	}

	album, err := a.albums.Get(id)
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, album)
}

// CreateAlbum 创建相册：POST /admin/api/albums。
func (a *API) CreateAlbum(c *gin.Context) {
	var req albumRequest
	if !bindJSON(c, &req, "invalid album payload") {
		return
	}

	album, err := a.albums.Create(albumInputFromRequest(req))
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, album)
}

// UpdateAlbum 更新相册：PUT /admin/api/albums/:id。
func (a *API) UpdateAlbum(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album not found")
		return
	}

	var req albumRequest
	if !bindJSON(c, &req, "invalid album payload") {
		return
	}

	album, err := a.albums.Update(id, albumInputFromRequest(req))
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, album)
}

// DeleteAlbum 删除相册及其图片：DELETE /admin/api/albums/:id。
func (a *API) DeleteAlbum(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album not found")
		return
	}

	if err := a.albums.Delete(id); err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddAlbumImage 向相册添加图片：POST /admin/api/albums/:id/images。
func (a *API) AddAlbumImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album not found")
		return
	}

	var req albumImageRequest
	if !bindJSON(c, &req, "invalid album image payload") {
		return
	}

	image, err := a.albums.AddImage(id, albumImageInputFromRequest(req))
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

// UpdateAlbumImage 更新相册图片：PUT /admin/api/album-images/:id。
func (a *API) UpdateAlbumImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album image not found")
		return
	}

	var req albumImageRequest
	if !bindJSON(c, &req, "invalid album image payload") {
		return
	}

	image, err := a.albums.UpdateImage(id, albumImageInputFromRequest(req))
	if err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

// DeleteAlbumImage 删除相册图片：DELETE /admin/api/album-images/:id。
func (a *API) DeleteAlbumImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "album image not found")
		return
	}

	if err := a.albums.DeleteImage(id); err != nil {
		a.respondAlbumError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondAlbumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlbumTitleRequired):
		respondError(c, http.StatusBadRequest, "album title is required")
	case errors.Is(err, service.ErrAlbumStatusInvalid):
		respondError(c, http.StatusBadRequest, "album status is invalid")
	case errors.Is(err, service.ErrAlbumImageURLMissing):
		respondError(c, http.StatusBadRequest, "album image url is required")
	case errors.Is(err, service.ErrAlbumNotFound):
		respondError(c, http.StatusNotFound, "album not found")
	case errors.Is(err, service.ErrAlbumImageNotFound):
		respondError(c, http.StatusNotFound, "album image not found")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func albumInputFromRequest(req albumRequest) service.AlbumInput {
	return service.AlbumInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Status:      req.Status,
		SortOrder:   req.SortOrder,
	}
}

func albumImageInputFromRequest(req albumImageRequest) service.AlbumImageInput {
	return service.AlbumImageInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageWidth:  req.ImageWidth,
		ImageHeight: req.ImageHeight,
		SortOrder:   req.SortOrder,
	}
}
