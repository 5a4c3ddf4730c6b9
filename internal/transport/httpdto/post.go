package httpdto

import (
	"time"

	"pulseboard/internal/domain/post"
)

// PostDTO is the public post representation.
type PostDTO struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreatePostRequest is used for POST /v1/posts
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	ImageURL string `json:"image_url,omitempty"`
}

// UpdatePostRequest is used for PATCH /v1/posts/:id
type UpdatePostRequest struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// ListPostsResponse is returned when listing posts
type ListPostsResponse struct {
	Posts []PostDTO `json:"posts"`
	Total int64     `json:"total"`
}

func FromPost(p post.Post) PostDTO {
	return PostDTO{
		ID:        p.ID.String(),
		AuthorID:  p.AuthorID.String(),
		Title:     p.Title,
		Body:      p.Body,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func FromPostSlice(posts []post.Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, FromPost(p))
	}
	return out
}
