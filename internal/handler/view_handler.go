package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumenlog/internal/service"
)

const (
	visitorCookieName   = "visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

func viewedMarkerName(postID uint) string {
	return fmt.Sprintf("viewed_marker_%d", postID)
}

// RecordPostView 处理浏览上报：POST /api/posts/:id/view。
//
// 短效标记 Cookie 命中时直接判为重复、不访问存储；否则补齐长效访客
// Cookie 并交给 ViewService 做窗口判定。重复与计数都是 200，去重不是
// 失败。两条成功路径都会刷新标记 Cookie。
func (a *API) RecordPostView(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	if marker, err := c.Cookie(viewedMarkerName(id)); err == nil && strings.TrimSpace(marker) != "" {
		a.ensureVisitorID(c)
		c.JSON(http.StatusOK, gin.H{"message": "duplicate", "viewCount": nil})
		return
	}

	visitorID := a.ensureVisitorID(c)

	result, err := a.views.RecordView(id, visitorID, currentUserID(c), c.ClientIP(), time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, service.ErrPostNotPublished):
			respondError(c, http.StatusForbidden, "post is not published")
		default:
			c.Error(err)
			respondError(c, http.StatusInternalServerError, "failed to record view")
		}
		return
	}

	a.setViewedMarker(c, id)

	if result.Counted {
		c.JSON(http.StatusOK, gin.H{"message": "counted", "viewCount": result.ViewCount})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "duplicate", "viewCount": nil})
}

// ensureVisitorID 读取长效访客 Cookie，缺失时生成并下发一个新的。
func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}

// setViewedMarker 下发短效标记，有效期与去重窗口一致。
func (a *API) setViewedMarker(c *gin.Context, postID uint) {
	window := a.views.DedupWindow()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     viewedMarkerName(postID),
		Value:    "1",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   int(window.Seconds()),
		Expires:  time.Now().Add(window),
		SameSite: http.SameSiteLaxMode,
	})
}
