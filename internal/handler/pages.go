package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"snapptale/internal/web"
)

func (h *StoryHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, web.HomePage, nil)
}

func (h *StoryHandler) UploadForm(c *gin.Context) {
	c.HTML(http.StatusOK, web.UploadPage, web.UploadView{})
}

// SubmitUpload 处理无脚本的表单提交：成功渲染故事预览，失败回到表单并显示原因
func (h *StoryHandler) SubmitUpload(c *gin.Context) {
	req, err := parseUploadRequest(c, h.maxUploadBytes)
	if err != nil {
		c.HTML(statusFor(err), web.UploadPage, web.UploadView{
			Name:  strings.TrimSpace(c.PostForm("name")),
			Error: err.Error(),
		})
		return
	}

	story, err := h.stories.GenerateStory(c.Request.Context(), req.Name, req.Photo)
	if err != nil {
		c.HTML(http.StatusInternalServerError, web.UploadPage, web.UploadView{
			Name:  req.Name,
			Error: "We could not write your story: " + err.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, web.PreviewPage, web.PreviewView{
		Name:      req.Name,
		Story:     story,
		Exporting: h.stories.IsExporting(clientID(c)),
	})
}
