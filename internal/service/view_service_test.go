package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lumenlog/internal/db"
)

func TestRecordViewCountsOncePerWindow(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	post := createPublishedPost(t, "测试文章")
	svc := NewViewService(db.DB)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	result, err := svc.RecordView(post.ID, "visitor-1", nil, "203.0.113.7", base)
	if err != nil {
		t.Fatalf("first view failed: %v", err)
	}
	if !result.Counted || result.ViewCount != 1 {
		t.Fatalf("expected counted=true viewCount=1, got counted=%v viewCount=%d", result.Counted, result.ViewCount)
	}

	result, err = svc.RecordView(post.ID, "visitor-1", nil, "203.0.113.7", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("repeat view failed: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected repeat view within window to be duplicate")
	}

	var records int64
	if err := db.DB.Model(&db.PostView{}).Where("post_id = ?", post.ID).Count(&records).Error; err != nil {
		t.Fatalf("failed to count view records: %v", err)
	}
	if records != 1 {
		t.Fatalf("expected exactly 1 view record, got %d", records)
	}
}

func TestRecordViewDifferentVisitors(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	post := createPublishedPost(t, "测试文章")
	svc := NewViewService(db.DB)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.RecordView(post.ID, "visitor-1", nil, "", base); err != nil {
		t.Fatalf("first view failed: %v", err)
	}

	result, err := svc.RecordView(post.ID, "visitor-2", nil, "", base.Add(time.Minute))
	if err != nil {
		t.Fatalf("second visitor failed: %v", err)
	}
	if !result.Counted || result.ViewCount != 2 {
		t.Fatalf("expected counted=true viewCount=2, got counted=%v viewCount=%d", result.Counted, result.ViewCount)
	}
}

func TestRecordViewCrossIdentityDedup(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	post := createPublishedPost(t, "测试文章")
	svc := NewViewService(db.DB)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// 匿名浏览后登录再浏览：同一 Cookie 命中访客分支
	if _, err := svc.RecordView(post.ID, "cookie-a", nil, "", base); err != nil {
		t.Fatalf("anonymous view failed: %v", err)
	}
	result, err := svc.RecordView(post.ID, "cookie-a", uintPtr(7), "", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("authenticated view failed: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected same-cookie authenticated view to be duplicate")
	}

	// 同一账号换浏览器：新 Cookie 命中用户分支
	if _, err := svc.RecordView(post.ID, "cookie-b", uintPtr(8), "", base); err != nil {
		t.Fatalf("first device view failed: %v", err)
	}
	result, err = svc.RecordView(post.ID, "cookie-c", uintPtr(8), "", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("second device view failed: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected same-user view from another device to be duplicate")
	}
}

func TestRecordViewConflictIsDuplicate(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	post := createPublishedPost(t, "测试文章")
	svc := NewViewService(db.DB).WithDedupWindow(time.Minute)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.RecordView(post.ID, "visitor-1", nil, "", base); err != nil {
		t.Fatalf("first view failed: %v", err)
	}

	// 窗口外重访：预检查不命中，插入撞唯一索引，按重复吞掉
	result, err := svc.RecordView(post.ID, "visitor-1", nil, "", base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("expected conflict to be swallowed, got error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected conflicting insert to report duplicate")
	}

	var refreshed db.Post
	if err := db.DB.First(&refreshed, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if refreshed.ViewCount != 1 {
		t.Fatalf("expected view count to stay at 1, got %d", refreshed.ViewCount)
	}
}

func TestRecordViewRejectsMissingAndDraftPosts(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewViewService(db.DB)
	now := time.Now().UTC()

	if _, err := svc.RecordView(9999, "visitor-1", nil, "", now); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	draft := createDraftPost(t, "草稿")
	if _, err := svc.RecordView(draft.ID, "visitor-1", nil, "", now); !errors.Is(err, ErrPostNotPublished) {
		t.Fatalf("expected ErrPostNotPublished, got %v", err)
	}
}
