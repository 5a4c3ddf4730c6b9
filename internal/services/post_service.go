package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/domain/post"
	"pulseboard/internal/domain/user"
	"pulseboard/internal/repository"
	pulseboard_errors "pulseboard/pkg/errors"
)

type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	notifier *Notifier
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, notifier *Notifier) *PostService {
	return &PostService{posts: posts, users: users, notifier: notifier}
}

type CreatePostInput struct {
	Title    string
	Body     string
	ImageURL string
}

type UpdatePostInput struct {
	Title string
	Body  string
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, in CreatePostInput) (post.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return post.Post{}, pulseboard_errors.ErrInvalidInput
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return post.Post{}, err
	}

	now := time.Now()
	p := &post.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return post.Post{}, err
	}

	s.notifier.PostCreated(author, *p)
	return *p, nil
}

func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, page, limit int) ([]post.Post, int64, error) {
	return s.posts.List(ctx, page, limit)
}

// Update modifies a post; only its author may.
func (s *PostService) Update(ctx context.Context, requesterID, postID uuid.UUID, in UpdatePostInput) (post.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return post.Post{}, err
	}
	if p.AuthorID != requesterID {
		return post.Post{}, pulseboard_errors.ErrForbidden
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Body != "" {
		p.Body = in.Body
	}
	p.UpdatedAt = time.Now()

	if err := s.posts.Update(ctx, p); err != nil {
		return post.Post{}, err
	}
	return p, nil
}

// Delete removes a post; the author or an admin may.
func (s *PostService) Delete(ctx context.Context, requesterID uuid.UUID, requesterRole string, postID uuid.UUID) error {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID && requesterRole != user.RoleAdmin {
		return pulseboard_errors.ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}
