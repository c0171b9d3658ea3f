package service

import (
	"errors"
	"testing"

	"github.com/lumenlog/internal/db"
)

func TestCreateTagRejectsDuplicates(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTagService(db.DB)

	if _, err := svc.Create("Go"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create("Go"); !errors.Is(err, ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
	if _, err := svc.Create("  "); !errors.Is(err, ErrTagNameRequired) {
		t.Fatalf("expected ErrTagNameRequired, got %v", err)
	}
}

func TestDeleteTagBlockedWhenInUse(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTagService(db.DB)

	tag, err := svc.Create("Go")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	post := createPublishedPost(t, "带标签的文章")
	if err := db.DB.Model(post).Association("Tags").Append(tag); err != nil {
		t.Fatalf("failed to associate tag: %v", err)
	}

	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagInUse) {
		t.Fatalf("expected ErrTagInUse, got %v", err)
	}

	if err := db.DB.Model(post).Association("Tags").Clear(); err != nil {
		t.Fatalf("failed to clear association: %v", err)
	}
	if err := svc.Delete(tag.ID); err != nil {
		t.Fatalf("expected delete to succeed after detaching: %v", err)
	}
}

func TestPublishedUsageCountsOnlyPublishedPosts(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTagService(db.DB)

	tag, err := svc.Create("Go")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	published := createPublishedPost(t, "已发布")
	draft := createDraftPost(t, "草稿")
	for _, post := range []*db.Post{published, draft} {
		if err := db.DB.Model(post).Association("Tags").Append(tag); err != nil {
			t.Fatalf("failed to associate tag: %v", err)
		}
	}

	usages, err := svc.PublishedUsage()
	if err != nil {
		t.Fatalf("usage query failed: %v", err)
	}
	if len(usages) != 1 || usages[0].Count != 1 {
		t.Fatalf("expected one tag with count 1, got %+v", usages)
	}
}
