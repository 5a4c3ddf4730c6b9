package repository

import (
	"context"

	"github.com/google/uuid"

	"pulseboard/internal/domain/post"
	"pulseboard/internal/domain/upload"
	"pulseboard/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	List(ctx context.Context, page, limit int) ([]user.User, int64, error)
	Update(ctx context.Context, u user.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, s *user.UserSession) error
	GetSessionByID(ctx context.Context, sessionID uuid.UUID) (user.UserSession, error)
	UpdateSession(ctx context.Context, s user.UserSession) error
	RevokeSession(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
}

type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (post.Post, error)
	List(ctx context.Context, page, limit int) ([]post.Post, int64, error)
	Update(ctx context.Context, p post.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UploadRepository interface {
	Create(ctx context.Context, s *upload.UploadSession) error
	GetByID(ctx context.Context, id uuid.UUID) (upload.UploadSession, error)
	Update(ctx context.Context, s upload.UploadSession) error
}
