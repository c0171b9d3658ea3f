package service

import (
	"testing"
	"time"

	"github.com/lumenlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func createPublishedPost(t *testing.T, title string) *db.Post {
	t.Helper()

	now := time.Now().UTC()
	post := db.Post{
		Title:       title,
		Content:     "正文内容",
		Status:      db.PostStatusPublished,
		PublishedAt: &now,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

func createDraftPost(t *testing.T, title string) *db.Post {
	t.Helper()

	post := db.Post{Title: title, Content: "草稿内容", Status: db.PostStatusDraft}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

func uintPtr(v uint) *uint {
	return &v
}
