package post

import (
	"time"

	"github.com/google/uuid"
)

// Post represents the posts table
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Body      string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
