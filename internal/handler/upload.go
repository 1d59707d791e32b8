package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"snapptale/internal/model"
	"snapptale/internal/service"
	"snapptale/pkg/logger"
)

// 超过此大小的表单部分写入临时文件
const multipartMemory = 8 << 20

type StoryHandler struct {
	stories        *service.StoryService
	maxUploadBytes int64
}

func NewStoryHandler(stories *service.StoryService, maxUploadBytes int64) *StoryHandler {
	return &StoryHandler{stories: stories, maxUploadBytes: maxUploadBytes}
}

// Upload 处理 POST /api/upload：校验表单，生成故事并原样返回
func (h *StoryHandler) Upload(c *gin.Context) {
	req, err := parseUploadRequest(c, h.maxUploadBytes)
	if err != nil {
		logger.Warnf("rejected upload: %v", err)
		abortWithError(c, err)
		return
	}

	story, err := h.stories.GenerateStory(c.Request.Context(), req.Name, req.Photo)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{Story: story})
}

// parseUploadRequest 读取 multipart 的 name 与 photo 字段。所有校验失败都返回 *ValidationError
func parseUploadRequest(c *gin.Context, maxBytes int64) (*model.UploadRequest, error) {
	if maxBytes > 0 {
		if c.Request.ContentLength > maxBytes {
			return nil, badRequest("photo", fmt.Sprintf("upload exceeds %d bytes", maxBytes))
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, badRequest("photo", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return nil, badRequest("", "expected a multipart form with name and photo")
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		return nil, badRequest("name", "name is required")
	}

	photo, err := readPhoto(c, "photo")
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, badRequest("photo", "photo is required")
	}

	return &model.UploadRequest{Name: name, Photo: photo}, nil
}

// readPhoto 读取图片文件字段。字段缺失时返回 nil, nil
func readPhoto(c *gin.Context, field string) (*model.Photo, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest(field, "invalid photo upload")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, badRequest(field, "photo is empty")
	}

	// 以嗅探结果为准，声明的 Content-Type 不可信；只接受位图
	mimeType := http.DetectContentType(data)
	if !rasterTypes[mimeType] {
		return nil, badRequest(field, "photo must be a PNG, JPEG, GIF or WebP image")
	}
	return &model.Photo{Filename: fh.Filename, MIMEType: mimeType, Data: data}, nil
}

var rasterTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}
