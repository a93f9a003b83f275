package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jeremyjsx/stories/internal/posts"
)

const tablePosts = "posts"

const (
	postFieldID          = "id"
	postFieldTitle       = "title"
	postFieldDescription = "description"
	postFieldStory       = "story"
	postFieldImageURL    = "image_url"
	postFieldImageKey    = "image_key"
	postFieldCreatedAt   = "created_at"
	postFieldUpdatedAt   = "updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostRepository struct {
	db *sql.DB
}

var _ posts.Repository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldTitle,
		postFieldDescription,
		postFieldStory,
		postFieldImageURL,
		postFieldImageKey,
		postFieldCreatedAt,
		postFieldUpdatedAt,
	}
}

func scanPost(row sq.RowScanner) (*posts.Post, error) {
	var post posts.Post

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Description,
		&post.Story,
		&post.ImageURL,
		&post.ImageKey,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (repo *PostRepository) Create(ctx context.Context, post *posts.Post) error {
	q := psql.Insert(tablePosts).
		Columns(postColumns()...).
		Values(
			post.ID,
			post.Title,
			post.Description,
			post.Story,
			post.ImageURL,
			post.ImageKey,
			post.CreatedAt,
			post.UpdatedAt,
		).
		RunWith(repo.db)

	if _, err := q.ExecContext(ctx); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

func (repo *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*posts.Post, error) {
	q := psql.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: id}).
		RunWith(repo.db)

	post, err := scanPost(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return post, nil
}

func (repo *PostRepository) List(ctx context.Context) ([]*posts.Post, error) {
	q := psql.Select(postColumns()...).
		From(tablePosts).
		OrderBy(postFieldUpdatedAt + " DESC").
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	result := make([]*posts.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

func (repo *PostRepository) Update(ctx context.Context, post *posts.Post) error {
	q := psql.Update(tablePosts).
		Set(postFieldTitle, post.Title).
		Set(postFieldDescription, post.Description).
		Set(postFieldStory, post.Story).
		Set(postFieldImageURL, post.ImageURL).
		Set(postFieldImageKey, post.ImageKey).
		Set(postFieldUpdatedAt, post.UpdatedAt).
		Where(sq.Eq{postFieldID: post.ID}).
		RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

func (repo *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(tablePosts).
		Where(sq.Eq{postFieldID: id}).
		RunWith(repo.db)

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}

	return nil
}
