package model

// UploadRequest 对应 /api/upload 的 multipart 表单
type UploadRequest struct {
	Name  string
	Photo *Photo
}

type ExportRequest struct {
	Name  string `json:"name"`
	Story Story  `json:"story" binding:"required"`
}
