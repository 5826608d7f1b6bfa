package transfer

type UploadRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType"`
	Base64Data  string `json:"base64Data" validate:"required"`
}

type UploadResponse struct {
	PublicURL string `json:"publicUrl"`
}
