package handler

import (
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadImage 处理图片上传请求：POST /admin/api/uploads。
// 成功时返回可访问的 URL 与探测到的图片尺寸。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	width, height := probeImageSize(file)

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to prepare upload directory")
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to save upload")
		return
	}

	fileURL := strings.TrimRight(a.uploadURL, "/") + "/" + newFilename
	c.JSON(http.StatusOK, gin.H{
		"url":    fileURL,
		"width":  width,
		"height": height,
	})
}

// probeImageSize 尝试解码图片头部获取尺寸，失败时返回 0。
// 支持 jpeg/png/gif/webp（webp 解码由 x/image 提供）。
func probeImageSize(file *multipart.FileHeader) (int, int) {
	reader, err := file.Open()
	if err != nil {
		return 0, 0
	}
	defer reader.Close()

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
