package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pulseboard/internal/domain/post"
	pulseboard_errors "pulseboard/pkg/errors"
)

type PostgresPostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) PostRepository {
	return &PostgresPostRepository{db: db}
}

const postColumns = `id, author_id, title, body, image_url, created_at, updated_at`

func scanPost(row pgx.Row) (post.Post, error) {
	var p post.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, pulseboard_errors.ErrNotFound
		}
		return post.Post{}, err
	}
	return p, nil
}

func (r *PostgresPostRepository) Create(ctx context.Context, p *post.Post) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.AuthorID, p.Title, p.Body, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostgresPostRepository) List(ctx context.Context, page, limit int) ([]post.Post, int64, error) {
	limit = normalizeLimit(limit)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`,
		offsetFor(page, limit), limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *PostgresPostRepository) Update(ctx context.Context, p post.Post) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $2, body = $3, image_url = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Title, p.Body, p.ImageURL, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pulseboard_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pulseboard_errors.ErrNotFound
	}
	return nil
}
