package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/lumenlog/internal/db"
	"github.com/lumenlog/internal/service"
)

func createGuestCommentViaAPI(t *testing.T, api *API, postID uint, secret string) *db.Comment {
	t.Helper()

	comment, err := api.comments.Create(service.CommentInput{
		PostID:     postID,
		Content:    "游客的评论",
		AuthorName: "路人甲",
		Secret:     secret,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create guest comment: %v", err)
	}
	return comment
}

func TestCreateCommentGuestFlow(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)

	payload := fmt.Sprintf(`{"postId":%d,"content":"第一条评论","authorName":"路人甲","secret":"s3cret"}`, post.ID)
	w := doRequest(r, http.MethodPost, "/api/comments", payload, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 响应不能泄漏口令哈希
	if strings.Contains(w.Body.String(), "passwordHash") || strings.Contains(w.Body.String(), "$2a$") {
		t.Fatalf("response must not expose the password hash: %s", w.Body.String())
	}

	var created db.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.AuthorName != "路人甲" || created.AuthorID != nil {
		t.Fatalf("unexpected author fields: %+v", created)
	}

	list := doRequest(r, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", post.ID), "", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	var listResp struct {
		Comments []db.Comment `json:"comments"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listResp.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(listResp.Comments))
	}
}

func TestCreateCommentValidationStatuses(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)

	cases := []struct {
		name    string
		payload string
		want    int
	}{
		{"missing post id", `{"content":"评论","authorName":"路人甲","secret":"s3cret"}`, http.StatusBadRequest},
		{"missing name", fmt.Sprintf(`{"postId":%d,"content":"评论","secret":"s3cret"}`, post.ID), http.StatusBadRequest},
		{"missing secret", fmt.Sprintf(`{"postId":%d,"content":"评论","authorName":"路人甲"}`, post.ID), http.StatusBadRequest},
		{"empty content", fmt.Sprintf(`{"postId":%d,"content":"   ","authorName":"路人甲","secret":"s3cret"}`, post.ID), http.StatusBadRequest},
		{"unknown post", `{"postId":9999,"content":"评论","authorName":"路人甲","secret":"s3cret"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		w := doRequest(r, http.MethodPost, "/api/comments", tc.payload, nil)
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, w.Code, w.Body.String())
		}
	}

	tooLong := strings.Repeat("字", service.MaxCommentLength+1)
	payload, err := json.Marshal(map[string]interface{}{
		"postId": post.ID, "content": tooLong, "authorName": "路人甲", "secret": "s3cret",
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	w := doRequest(r, http.MethodPost, "/api/comments", string(payload), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized content, got %d", w.Code)
	}

	draft := createTestPost(t, db.PostStatusDraft)
	w = doRequest(r, http.MethodPost, "/api/comments", fmt.Sprintf(`{"postId":%d,"content":"评论","authorName":"路人甲","secret":"s3cret"}`, draft.ID), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for draft post, got %d", w.Code)
	}
}

func TestUpdateCommentSecretStatuses(t *testing.T) {
	r, api, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)
	comment := createGuestCommentViaAPI(t, api, post.ID, "s3cret")
	path := fmt.Sprintf("/api/comments/%d", comment.ID)

	w := doRequest(r, http.MethodPut, path, `{"content":"改过的评论"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without secret, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPut, path, `{"content":"改过的评论","secret":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPut, path, `{"content":"改过的评论","secret":"s3cret"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for correct secret, got %d: %s", w.Code, w.Body.String())
	}

	var updated db.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.Content != "改过的评论" {
		t.Fatalf("unexpected content: %q", updated.Content)
	}
}

func TestDeleteCommentLifecycle(t *testing.T) {
	r, api, cleanup := setupTestAPI(t)
	defer cleanup()

	post := createTestPost(t, db.PostStatusPublished)
	comment := createGuestCommentViaAPI(t, api, post.ID, "s3cret")
	path := fmt.Sprintf("/api/comments/%d", comment.ID)

	// 无请求体：匿名删除缺口令
	w := doRequest(r, http.MethodDelete, path, "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without secret, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodDelete, path, `{"secret":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", w.Code)
	}

	w = doRequest(r, http.MethodDelete, path, `{"secret":"s3cret"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for correct secret, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success flag in delete response")
	}

	// 再删一次：逻辑删除后按不存在处理
	w = doRequest(r, http.MethodDelete, path, `{"secret":"s3cret"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPut, path, `{"content":"改删除的评论","secret":"s3cret"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on update after delete, got %d", w.Code)
	}
}
