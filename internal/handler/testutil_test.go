package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestAPI 构造带会话中间件与内存数据库的测试引擎。
func setupTestAPI(t *testing.T) (*gin.Engine, *API, func()) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	db.DB = gdb

	api := NewAPI(gdb, zerolog.Nop(), t.TempDir(), "/uploads")

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.POST("/api/posts/:id/view", api.RecordPostView)
	r.GET("/api/posts/:id/comments", api.ListComments)
	r.POST("/api/comments", api.CreateComment)
	r.PUT("/api/comments/:id", api.UpdateComment)
	r.DELETE("/api/comments/:id", api.DeleteComment)

	cleanup := func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return r, api, cleanup
}

func createTestPost(t *testing.T, status string) *db.Post {
	t.Helper()

	post := db.Post{Title: "测试文章", Content: "正文内容", Status: status}
	if status == db.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

// doRequest 发送一次请求，payload 为空时不带请求体，cookies 原样附加。
func doRequest(r *gin.Engine, method, path, payload string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
