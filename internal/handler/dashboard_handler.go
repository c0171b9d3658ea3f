package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/db"
)

// DashboardStats 返回后台概览数据：GET /admin/api/dashboard。
func (a *API) DashboardStats(c *gin.Context) {
	var (
		postCount     int64
		publishedPost int64
		tagCount      int64
		categoryCount int64
		albumCount    int64
	)

	a.db.Model(&db.Post{}).Count(&postCount)
	a.db.Model(&db.Post{}).Where("status = ?", db.PostStatusPublished).Count(&publishedPost)
	a.db.Model(&db.Tag{}).Count(&tagCount)
	a.db.Model(&db.Category{}).Count(&categoryCount)
	a.db.Model(&db.Album{}).Count(&albumCount)

	commentCount, err := a.comments.Count()
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}

	topPosts, err := a.posts.TopByViews(5)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}

	var totalViews int64
	a.db.Model(&db.PostView{}).Count(&totalViews)

	c.JSON(http.StatusOK, gin.H{
		"postCount":      postCount,
		"publishedCount": publishedPost,
		"tagCount":       tagCount,
		"categoryCount":  categoryCount,
		"albumCount":     albumCount,
		"commentCount":   commentCount,
		"totalViews":     totalViews,
		"topPosts":       topPosts,
	})
}
