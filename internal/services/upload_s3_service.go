package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/domain/upload"
	"pulseboard/internal/repository"
	"pulseboard/internal/storage"
	pulseboard_errors "pulseboard/pkg/errors"
)

type UploadS3Service struct {
	repo     repository.UploadRepository
	storage  *storage.Client
	maxBytes int64
}

func NewUploadS3Service(repo repository.UploadRepository, storage *storage.Client, maxBytes int64) *UploadS3Service {
	return &UploadS3Service{repo: repo, storage: storage, maxBytes: maxBytes}
}

type PresignInput struct {
	UploaderID  uuid.UUID
	FileName    string
	ContentType string
	FileSize    int64
}

type PresignResult struct {
	Session   upload.UploadSession
	UploadURL string
	Headers   map[string]string
}

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// Presign validates the upload request, records a session, and returns a
// presigned PUT URL the client uploads to directly.
func (s *UploadS3Service) Presign(ctx context.Context, in PresignInput) (PresignResult, error) {
	if in.FileName == "" || in.ContentType == "" || in.FileSize <= 0 {
		return PresignResult{}, pulseboard_errors.ErrInvalidInput
	}
	if !allowedContentTypes[in.ContentType] {
		return PresignResult{}, pulseboard_errors.ErrInvalidInput
	}
	if s.maxBytes > 0 && in.FileSize > s.maxBytes {
		return PresignResult{}, pulseboard_errors.ErrTooLarge
	}

	id := uuid.New()
	key := objectKey(in.UploaderID, id, in.FileName)

	uploadURL, headers, err := s.storage.PresignPut(ctx, key, in.ContentType, in.FileSize)
	if err != nil {
		return PresignResult{}, err
	}

	now := time.Now()
	session := &upload.UploadSession{
		ID:         id,
		UploaderID: in.UploaderID,
		Filename:   in.FileName,
		MimeType:   in.ContentType,
		SizeBytes:  in.FileSize,
		ObjectKey:  key,
		Status:     upload.StatusInProgress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return PresignResult{}, err
	}

	return PresignResult{
		Session:   *session,
		UploadURL: uploadURL,
		Headers:   headers,
	}, nil
}

// Complete marks a session uploaded and returns its public URL.
func (s *UploadS3Service) Complete(ctx context.Context, uploaderID, sessionID uuid.UUID) (upload.UploadSession, string, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return upload.UploadSession{}, "", err
	}
	if session.UploaderID != uploaderID {
		return upload.UploadSession{}, "", pulseboard_errors.ErrForbidden
	}

	session.Status = upload.StatusUploaded
	session.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, session); err != nil {
		return upload.UploadSession{}, "", err
	}

	return session, s.storage.FileURL(session.ObjectKey), nil
}

// GetByID returns an upload session; only its owner may see it.
func (s *UploadS3Service) GetByID(ctx context.Context, requesterID, sessionID uuid.UUID) (upload.UploadSession, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return upload.UploadSession{}, err
	}
	if session.UploaderID != requesterID {
		return upload.UploadSession{}, pulseboard_errors.ErrForbidden
	}
	return session, nil
}

func objectKey(uploaderID, sessionID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "uploads/" + uploaderID.String() + "/" + sessionID.String() + ext
}
