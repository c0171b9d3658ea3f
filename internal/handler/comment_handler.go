package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/service"
)

type createCommentRequest struct {
	PostID     uint   `json:"postId"`
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	Secret     string `json:"secret"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
	Secret  string `json:"secret"`
}

type deleteCommentRequest struct {
	Secret string `json:"secret"`
}

// ListComments 返回文章下未删除的评论：GET /api/posts/:id/comments。
func (a *API) ListComments(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	comments, err := a.comments.ListByPost(id)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateComment 创建评论：POST /api/comments。
// 已登录时走会员路径；匿名时要求昵称与口令。
func (a *API) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}
	if req.PostID == 0 {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	comment, err := a.comments.Create(service.CommentInput{
		PostID:     req.PostID,
		Content:    req.Content,
		AuthorName: req.AuthorName,
		Secret:     req.Secret,
	}, currentUserID(c))
	if err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment 修改评论内容：PUT /api/comments/:id。
func (a *API) UpdateComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "comment not found")
		return
	}

	var req updateCommentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Update(id, req.Content, req.Secret, currentUserID(c))
	if err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment 逻辑删除评论：DELETE /api/comments/:id。
// 请求体可省略（管理员或会员作者不需要口令）。
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "comment not found")
		return
	}

	var req deleteCommentRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindJSON(c, &req, "invalid comment payload") {
			return
		}
	}

	if err := a.comments.Delete(id, req.Secret, currentUserID(c), currentIsAdmin(c)); err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondCommentError 将评论相关的业务错误映射为 HTTP 状态码。
// 缺少口令是 400（缺字段），口令不对是 401（凭证无效），两者不混用。
func (a *API) respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentEmpty):
		respondError(c, http.StatusBadRequest, "comment content is required")
	case errors.Is(err, service.ErrCommentTooLong):
		respondError(c, http.StatusBadRequest, "comment cannot exceed 2000 characters")
	case errors.Is(err, service.ErrGuestNameRequired):
		respondError(c, http.StatusBadRequest, "guest name is required")
	case errors.Is(err, service.ErrSecretRequired):
		respondError(c, http.StatusBadRequest, "secret is required")
	case errors.Is(err, service.ErrSecretInvalid):
		respondError(c, http.StatusUnauthorized, "password incorrect")
	case errors.Is(err, service.ErrCommentForbidden):
		respondError(c, http.StatusForbidden, "not allowed to modify this comment")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "comment not found")
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrPostNotPublished):
		respondError(c, http.StatusForbidden, "post is not published")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
