package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"snapptale/internal/model"
	"snapptale/internal/preview"
	"snapptale/internal/storage"
	"snapptale/pkg/logger"
)

const previewPath = "/api/preview/"

type PreviewHandler struct {
	registry       *preview.Registry
	maxUploadBytes int64
}

func NewPreviewHandler(registry *preview.Registry, maxUploadBytes int64) *PreviewHandler {
	return &PreviewHandler{registry: registry, maxUploadBytes: maxUploadBytes}
}

// Create 处理 POST /api/preview：替换当前客户端的预览图，不带 photo 表示清空
func (h *PreviewHandler) Create(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			abortWithError(c, badRequest("photo", "upload too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var photo *model.Photo
	if err := c.Request.ParseMultipartForm(multipartMemory); err == nil {
		if photo, err = readPhoto(c, "photo"); err != nil {
			abortWithError(c, err)
			return
		}
	} else if !errors.Is(err, http.ErrNotMultipart) {
		abortWithError(c, badRequest("photo", "invalid photo upload"))
		return
	}

	id := clientID(c)
	ref, err := h.registry.Provider(id).Set(photo)
	if errors.Is(err, preview.ErrClosed) {
		// Provider 恰好被回收，换一个新的
		ref, err = h.registry.Provider(id).Set(photo)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := model.PreviewResponse{ID: ref}
	if ref != "" {
		resp.URL = previewPath + ref
	}
	c.JSON(http.StatusOK, resp)
}

// Get 处理 GET /api/preview/:id，只对持有该句柄的客户端返回图片
func (h *PreviewHandler) Get(c *gin.Context) {
	id, _ := c.Cookie(clientCookie)
	photo, err := h.registry.Lookup(id, c.Param("id"))
	if errors.Is(err, storage.ErrPreviewNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, model.ErrorResponse{Error: "preview not found"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "sandbox")
	c.Data(http.StatusOK, photo.MIMEType, photo.Data)
}

// Delete 处理 DELETE /api/preview：撤销当前客户端的全部预览
func (h *PreviewHandler) Delete(c *gin.Context) {
	id, err := c.Cookie(clientCookie)
	if err == nil && id != "" {
		if err := h.registry.Release(id); err != nil {
			logger.Warnf("release preview for %s: %v", id, err)
		}
	}
	c.Status(http.StatusNoContent)
}
