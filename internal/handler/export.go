package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"snapptale/internal/export"
	"snapptale/internal/model"
	"snapptale/internal/web"
)

const pdfContentType = "application/pdf"

// Export 处理 POST /api/export：JSON {name, story} -> PDF 附件
func (h *StoryHandler) Export(c *gin.Context) {
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest("story", "invalid export request: "+err.Error()))
		return
	}

	doc, err := h.stories.Export(c.Request.Context(), clientID(c), req.Story, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	sendPDF(c, doc)
}

// ExportForm 处理预览页提交的 POST /export。失败时带着错误重新渲染预览页
func (h *StoryHandler) ExportForm(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	var story model.Story
	if err := json.Unmarshal([]byte(c.PostForm("story")), &story); err != nil {
		c.HTML(http.StatusBadRequest, web.PreviewPage, web.PreviewView{
			Name:  name,
			Error: "The story could not be read. Please create it again.",
		})
		return
	}

	id := clientID(c)
	doc, err := h.stories.Export(c.Request.Context(), id, story, name)
	if err != nil {
		c.HTML(statusFor(err), web.PreviewPage, web.PreviewView{
			Name:      name,
			Story:     story,
			Exporting: errors.Is(err, export.ErrExportInProgress) || h.stories.IsExporting(id),
			Error:     exportMessage(err),
		})
		return
	}

	sendPDF(c, doc)
}

func sendPDF(c *gin.Context, doc *export.Document) {
	c.Header("Content-Disposition", contentDisposition(doc.Filename))
	c.Data(http.StatusOK, pdfContentType, doc.Data)
}

// contentDisposition ASCII 文件名直接加引号，否则按 RFC 5987 编码
func contentDisposition(filename string) string {
	if isASCII(filename) {
		return `attachment; filename="` + strings.ReplaceAll(filename, `"`, `\"`) + `"`
	}
	return `attachment; filename*=UTF-8''` + url.PathEscape(filename)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func exportMessage(err error) string {
	var exportErr *export.ExportError
	switch {
	case errors.Is(err, export.ErrExportInProgress):
		return "Your PDF is still being prepared."
	case errors.Is(err, export.ErrEmptyStory):
		return "There is nothing to export yet."
	case errors.As(err, &exportErr):
		return fmt.Sprintf("Chapter %d could not be added to the PDF.", exportErr.Chapter)
	default:
		return "The PDF could not be created. Please try again."
	}
}
