package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain/upload"
	"pulseboard/internal/storage"
	pulseboard_errors "pulseboard/pkg/errors"
)

func newTestStorage(t *testing.T) *storage.Client {
	t.Helper()
	client, err := storage.NewClient(context.Background(), storage.S3Config{
		Region:     "us-east-1",
		Bucket:     "test-bucket",
		AccessKey:  "test-key",
		SecretKey:  "test-secret",
		Endpoint:   "http://localhost:9000",
		PublicBase: "http://localhost:9000/test-bucket",
		PresignTTL: time.Minute,
	})
	require.NoError(t, err)
	return client
}

func TestPresignValidation(t *testing.T) {
	svc := NewUploadS3Service(newFakeUploadRepo(), nil, 1024)
	ctx := context.Background()
	uploader := uuid.New()

	_, err := svc.Presign(ctx, PresignInput{UploaderID: uploader, ContentType: "image/png", FileSize: 10})
	assert.ErrorIs(t, err, pulseboard_errors.ErrInvalidInput)

	_, err = svc.Presign(ctx, PresignInput{UploaderID: uploader, FileName: "a.exe", ContentType: "application/octet-stream", FileSize: 10})
	assert.ErrorIs(t, err, pulseboard_errors.ErrInvalidInput)

	_, err = svc.Presign(ctx, PresignInput{UploaderID: uploader, FileName: "a.png", ContentType: "image/png", FileSize: 0})
	assert.ErrorIs(t, err, pulseboard_errors.ErrInvalidInput)
}

func TestPresignRejectsOversizedFile(t *testing.T) {
	svc := NewUploadS3Service(newFakeUploadRepo(), nil, 1024)

	_, err := svc.Presign(context.Background(), PresignInput{
		UploaderID:  uuid.New(),
		FileName:    "big.png",
		ContentType: "image/png",
		FileSize:    1025,
	})
	assert.ErrorIs(t, err, pulseboard_errors.ErrTooLarge)
}

func TestPresignCreatesSession(t *testing.T) {
	repo := newFakeUploadRepo()
	svc := NewUploadS3Service(repo, newTestStorage(t), 10*1024*1024)
	uploader := uuid.New()

	result, err := svc.Presign(context.Background(), PresignInput{
		UploaderID:  uploader,
		FileName:    "avatar.png",
		ContentType: "image/png",
		FileSize:    2048,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.UploadURL)
	assert.Equal(t, "image/png", result.Headers["Content-Type"])
	assert.Equal(t, upload.StatusInProgress, result.Session.Status)
	assert.True(t, strings.HasPrefix(result.Session.ObjectKey, "uploads/"+uploader.String()+"/"))
	assert.True(t, strings.HasSuffix(result.Session.ObjectKey, ".png"))

	stored, err := repo.GetByID(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, uploader, stored.UploaderID)
}

func TestCompleteMarksSessionUploaded(t *testing.T) {
	repo := newFakeUploadRepo()
	svc := NewUploadS3Service(repo, newTestStorage(t), 10*1024*1024)
	ctx := context.Background()
	uploader := uuid.New()

	result, err := svc.Presign(ctx, PresignInput{
		UploaderID:  uploader,
		FileName:    "doc.pdf",
		ContentType: "application/pdf",
		FileSize:    512,
	})
	require.NoError(t, err)

	// only the uploader may complete their own session
	_, _, err = svc.Complete(ctx, uuid.New(), result.Session.ID)
	assert.ErrorIs(t, err, pulseboard_errors.ErrForbidden)

	session, fileURL, err := svc.Complete(ctx, uploader, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.StatusUploaded, session.Status)
	assert.Equal(t, "http://localhost:9000/test-bucket/"+session.ObjectKey, fileURL)
}

func TestGetUploadOwnerOnly(t *testing.T) {
	repo := newFakeUploadRepo()
	svc := NewUploadS3Service(repo, newTestStorage(t), 10*1024*1024)
	ctx := context.Background()
	uploader := uuid.New()

	result, err := svc.Presign(ctx, PresignInput{
		UploaderID:  uploader,
		FileName:    "notes.txt",
		ContentType: "text/plain",
		FileSize:    64,
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.New(), result.Session.ID)
	assert.ErrorIs(t, err, pulseboard_errors.ErrForbidden)

	got, err := svc.GetByID(ctx, uploader, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, got.ID)
}
