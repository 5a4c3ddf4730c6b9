package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pulseboard/internal/domain/upload"
	pulseboard_errors "pulseboard/pkg/errors"
)

type PostgresUploadRepository struct {
	db *pgxpool.Pool
}

func NewUploadRepository(db *pgxpool.Pool) UploadRepository {
	return &PostgresUploadRepository{db: db}
}

func (r *PostgresUploadRepository) Create(ctx context.Context, s *upload.UploadSession) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO upload_sessions (id, uploader_id, filename, mime_type, size_bytes, object_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UploaderID, s.Filename, s.MimeType, s.SizeBytes, s.ObjectKey, s.Status, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *PostgresUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (upload.UploadSession, error) {
	var s upload.UploadSession
	err := r.db.QueryRow(ctx, `
		SELECT id, uploader_id, filename, mime_type, size_bytes, object_key, status, created_at, updated_at
		FROM upload_sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.UploaderID, &s.Filename, &s.MimeType, &s.SizeBytes, &s.ObjectKey, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return upload.UploadSession{}, pulseboard_errors.ErrNotFound
		}
		return upload.UploadSession{}, err
	}
	return s, nil
}

func (r *PostgresUploadRepository) Update(ctx context.Context, s upload.UploadSession) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE upload_sessions
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		s.ID, s.Status, s.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pulseboard_errors.ErrNotFound
	}
	return nil
}
