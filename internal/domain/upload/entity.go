package upload

import (
	"time"

	"github.com/google/uuid"
)

// UploadSession represents upload_sessions
type UploadSession struct {
	ID         uuid.UUID
	UploaderID uuid.UUID
	Filename   string
	MimeType   string
	SizeBytes  int64
	ObjectKey  string
	Status     string // IN_PROGRESS, UPLOADED
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const (
	StatusInProgress = "IN_PROGRESS"
	StatusUploaded   = "UPLOADED"
)
