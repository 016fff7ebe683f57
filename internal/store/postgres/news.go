package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onairhq/onair/internal/domain"
)

type NewsRepo struct {
	pool *pgxpool.Pool
}

func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

func (r *NewsRepo) Create(ctx context.Context, n *domain.News) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO news (id, title, content, excerpt, category, image_url, is_published, published_at, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.Title, n.Content, n.Excerpt, n.Category, nilIfEmpty(n.ImageURL),
		n.IsPublished, n.PublishedAt, n.AuthorID, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("newsRepo.Create: %w", err)
	}

	return nil
}

func (r *NewsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	var n domain.News
	var imageURL, authorName *string

	err := r.pool.QueryRow(ctx,
		`SELECT n.id, n.title, n.content, n.excerpt, n.category, n.image_url, n.is_published,
		        n.published_at, n.author_id, u.username, n.created_at, n.updated_at
		 FROM news n
		 LEFT JOIN users u ON u.id = n.author_id
		 WHERE n.id = $1`,
		id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.Excerpt, &n.Category, &imageURL, &n.IsPublished,
		&n.PublishedAt, &n.AuthorID, &authorName, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("newsRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("newsRepo.GetByID: %w", err)
	}

	n.ImageURL = derefStr(imageURL)
	n.AuthorName = derefStr(authorName)

	return &n, nil
}

func (r *NewsRepo) List(ctx context.Context) ([]*domain.News, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.content, n.excerpt, n.category, n.image_url, n.is_published,
		        n.published_at, n.author_id, u.username, n.created_at, n.updated_at
		 FROM news n
		 LEFT JOIN users u ON u.id = n.author_id
		 ORDER BY n.created_at DESC, n.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("newsRepo.List: %w", err)
	}
	defer rows.Close()

	return scanNews(rows, "newsRepo.List")
}

func (r *NewsRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.News, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.content, n.excerpt, n.category, n.image_url, n.is_published,
		        n.published_at, n.author_id, u.username, n.created_at, n.updated_at
		 FROM news n
		 LEFT JOIN users u ON u.id = n.author_id
		 WHERE n.is_published = true
		 ORDER BY n.published_at DESC, n.id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("newsRepo.ListPublished: %w", err)
	}
	defer rows.Close()

	return scanNews(rows, "newsRepo.ListPublished")
}

// Update changes content fields only. Publication state has its own
// statement.
func (r *NewsRepo) Update(ctx context.Context, n *domain.News) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE news SET title = $1, content = $2, excerpt = $3, category = $4, image_url = $5, updated_at = now()
		 WHERE id = $6`,
		n.Title, n.Content, n.Excerpt, n.Category, nilIfEmpty(n.ImageURL), n.ID,
	)
	if err != nil {
		return fmt.Errorf("newsRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("newsRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// SetPublished stamps published_at on publish and clears it on unpublish.
func (r *NewsRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE news
		 SET is_published = $1,
		     published_at = CASE WHEN $1 THEN now() ELSE NULL END,
		     updated_at = now()
		 WHERE id = $2`,
		published, id,
	)
	if err != nil {
		return fmt.Errorf("newsRepo.SetPublished: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("newsRepo.SetPublished: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *NewsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("newsRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("newsRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *NewsRepo) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM news WHERE is_published = true`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("newsRepo.CountPublished: %w", err)
	}
	return n, nil
}

func scanNews(rows pgx.Rows, caller string) ([]*domain.News, error) {
	var stories []*domain.News
	for rows.Next() {
		var n domain.News
		var imageURL, authorName *string

		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Excerpt, &n.Category, &imageURL, &n.IsPublished,
			&n.PublishedAt, &n.AuthorID, &authorName, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		n.ImageURL = derefStr(imageURL)
		n.AuthorName = derefStr(authorName)
		stories = append(stories, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return stories, nil
}
