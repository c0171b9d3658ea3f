package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// currentUserID 从会话中解析已登录用户 ID，匿名请求返回 nil。
func currentUserID(c *gin.Context) *uint {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil
	}

	session := sessions.Default(c)
	raw := session.Get(sessionUserIDKey)
	if raw == nil {
		return nil
	}

	if id, ok := raw.(uint); ok && id != 0 {
		value := id
		return &value
	}
	return nil
}

// currentIsAdmin 返回会话是否带有管理员标记。
func currentIsAdmin(c *gin.Context) bool {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return false
	}

	session := sessions.Default(c)
	flag, _ := session.Get(sessionIsAdminKey).(bool)
	return flag
}
