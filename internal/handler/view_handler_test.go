package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/lumenlog/internal/db"
)

type viewResponse struct {
	Message   string  `json:"message"`
	ViewCount *uint64 `json:"viewCount"`
}

func decodeViewResponse(t *testing.T, body []byte) viewResponse {
	t.Helper()

	var resp viewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestRecordPostViewCountsAndSetsCookies(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)
	path := fmt.Sprintf("/api/posts/%d/view", post.ID)

	w := doRequest(r, http.MethodPost, path, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeViewResponse(t, w.Body.Bytes())
	if resp.Message != "counted" {
		t.Fatalf("expected counted, got %q", resp.Message)
	}
	if resp.ViewCount == nil || *resp.ViewCount != 1 {
		t.Fatalf("expected viewCount 1, got %v", resp.ViewCount)
	}

	visitor := findCookie(w, "visitor_id")
	if visitor == nil || visitor.Value == "" {
		t.Fatalf("expected visitor_id cookie to be issued")
	}
	marker := findCookie(w, fmt.Sprintf("viewed_marker_%d", post.ID))
	if marker == nil {
		t.Fatalf("expected viewed marker cookie to be issued")
	}
	if marker.MaxAge != 24*60*60 {
		t.Fatalf("expected marker max-age of one day, got %d", marker.MaxAge)
	}
}

func TestRecordPostViewMarkerShortCircuit(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)
	path := fmt.Sprintf("/api/posts/%d/view", post.ID)

	marker := &http.Cookie{Name: fmt.Sprintf("viewed_marker_%d", post.ID), Value: "1"}
	w := doRequest(r, http.MethodPost, path, "", []*http.Cookie{marker})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeViewResponse(t, w.Body.Bytes())
	if resp.Message != "duplicate" {
		t.Fatalf("expected duplicate, got %q", resp.Message)
	}
	if resp.ViewCount != nil {
		t.Fatalf("expected null viewCount on marker hit, got %d", *resp.ViewCount)
	}

	// 标记命中时不写任何浏览记录
	var records int64
	if err := db.DB.Model(&db.PostView{}).Count(&records).Error; err != nil {
		t.Fatalf("failed to count view records: %v", err)
	}
	if records != 0 {
		t.Fatalf("expected no view records, got %d", records)
	}
}

func TestRecordPostViewRepeatWithCookiesIsDuplicate(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)
	path := fmt.Sprintf("/api/posts/%d/view", post.ID)

	first := doRequest(r, http.MethodPost, path, "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	visitor := findCookie(first, "visitor_id")
	if visitor == nil {
		t.Fatalf("expected visitor_id cookie")
	}

	// 只带访客 Cookie（不带标记），仍应被窗口判为重复
	second := doRequest(r, http.MethodPost, path, "", []*http.Cookie{{Name: visitor.Name, Value: visitor.Value}})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	resp := decodeViewResponse(t, second.Body.Bytes())
	if resp.Message != "duplicate" || resp.ViewCount != nil {
		t.Fatalf("expected duplicate with null viewCount, got %+v", resp)
	}

	var refreshed db.Post
	if err := db.DB.First(&refreshed, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if refreshed.ViewCount != 1 {
		t.Fatalf("expected view count to stay at 1, got %d", refreshed.ViewCount)
	}
}

func TestRecordPostViewRejectsUnknownAndDraft(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	w := doRequest(r, http.MethodPost, "/api/posts/9999/view", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown post, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/posts/abc/view", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for invalid id, got %d", w.Code)
	}

	draft := createTestPost(t, db.PostStatusDraft)
	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/posts/%d/view", draft.ID), "", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for draft post, got %d", w.Code)
	}
}
