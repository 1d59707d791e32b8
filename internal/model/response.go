package model

type UploadResponse struct {
	Story Story `json:"story"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type PreviewResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
