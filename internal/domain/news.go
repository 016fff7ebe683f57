package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultNewsCategory is assigned when a story is filed without one.
	DefaultNewsCategory = "general"

	excerptLength = 150
)

// News is a station news story. IsPublished/PublishedAt change only through
// SetPublished, never through generic Update.
type News struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"` // joined on read
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var ErrNewsInvalid = errors.New("news: title and content are required")

// NewNews builds an unpublished story. An empty excerpt defaults to a
// truncated content prefix, an empty category to DefaultNewsCategory.
func NewNews(title, content, excerpt, category string, authorID uuid.UUID) (*News, error) {
	if title == "" || content == "" {
		return nil, ErrNewsInvalid
	}

	if excerpt == "" {
		excerpt = Excerpt(content)
	}
	if category == "" {
		category = DefaultNewsCategory
	}

	now := time.Now()
	return &News{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Excerpt:   excerpt,
		Category:  category,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Excerpt derives a short preview from story content.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

type NewsRepository interface {
	Create(ctx context.Context, n *News) error
	GetByID(ctx context.Context, id uuid.UUID) (*News, error)
	List(ctx context.Context) ([]*News, error)
	// ListPublished feeds the public site, newest published first.
	ListPublished(ctx context.Context, limit, offset int) ([]*News, error)
	Update(ctx context.Context, n *News) error
	// SetPublished stamps PublishedAt when publishing and clears it when
	// unpublishing.
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPublished(ctx context.Context) (int64, error)
}
