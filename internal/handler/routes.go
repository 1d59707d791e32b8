package handler

import "github.com/gin-gonic/gin"

// Register 挂载页面与 API 路由
func Register(router gin.IRouter, stories *StoryHandler, previews *PreviewHandler) {
	router.GET("/", stories.Home)
	router.GET("/upload", stories.UploadForm)
	router.POST("/upload", stories.SubmitUpload)
	router.POST("/export", stories.ExportForm)

	api := router.Group("/api")
	{
		api.POST("/upload", stories.Upload)
		api.POST("/export", stories.Export)

		api.POST("/preview", previews.Create)
		api.GET("/preview/:id", previews.Get)
		api.DELETE("/preview", previews.Delete)
	}
}
