package httpdto

import (
	"time"

	"pulseboard/internal/domain/upload"
)

// PresignUploadRequest is used for POST /v1/uploads/presign
type PresignUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// PresignUploadResponse is returned with the presigned PUT target.
type PresignUploadResponse struct {
	UploadID  string            `json:"upload_id"`
	UploadURL string            `json:"upload_url"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresIn int64             `json:"expires_in,omitempty"`
}

// UploadSessionDTO is the public upload session representation.
type UploadSessionDTO struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Status    string `json:"status"`
	FileURL   string `json:"file_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

func FromUploadSession(s upload.UploadSession, fileURL string) UploadSessionDTO {
	return UploadSessionDTO{
		ID:        s.ID.String(),
		FileName:  s.Filename,
		MimeType:  s.MimeType,
		SizeBytes: s.SizeBytes,
		Status:    s.Status,
		FileURL:   fileURL,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
