package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/domain/user"
	"pulseboard/internal/redis"
	"pulseboard/internal/repository"
	pulseboard_errors "pulseboard/pkg/errors"
)

type UserService struct {
	repo     repository.UserRepository
	cache    *redis.CacheStore // optional
	notifier *Notifier
}

func NewUserService(repo repository.UserRepository, cache *redis.CacheStore, notifier *Notifier) *UserService {
	return &UserService{repo: repo, cache: cache, notifier: notifier}
}

type UpdateProfileInput struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]user.User, int64, error) {
	return s.repo.List(ctx, page, limit)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUser(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if s.cache != nil {
		_ = s.cache.SetUser(ctx, u)
	}
	return u, nil
}

// UpdateProfile applies the given fields to the caller's own profile and
// announces the change to connected users.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if in.DisplayName != "" {
		u.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}

	s.notifier.ProfileUpdated(u)
	return u, nil
}

// Delete removes a user. Only the user themselves or an admin may do it.
func (s *UserService) Delete(ctx context.Context, requesterID, targetID uuid.UUID, requesterRole string) error {
	if requesterID != targetID && requesterRole != user.RoleAdmin {
		return pulseboard_errors.ErrForbidden
	}

	if err := s.repo.RevokeAllUserSessions(ctx, targetID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, targetID)
	}
	return nil
}
