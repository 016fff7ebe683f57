package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Program is a scheduled radio show. The IsActive flag is a lifecycle state
// mutated only through SetActive, never through generic Update.
type Program struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Host        string    `json:"host"`
	Schedule    string    `json:"schedule"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatorName string    `json:"creator_name,omitempty"` // joined on read
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ErrProgramInvalid = errors.New("program: title and schedule are required")

// NewProgram builds a program in the active state.
func NewProgram(title, description, host, schedule, imageURL string, createdBy uuid.UUID) (*Program, error) {
	if title == "" || schedule == "" {
		return nil, ErrProgramInvalid
	}

	now := time.Now()
	return &Program{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Host:        host,
		Schedule:    schedule,
		ImageURL:    imageURL,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type ProgramRepository interface {
	Create(ctx context.Context, p *Program) error
	GetByID(ctx context.Context, id uuid.UUID) (*Program, error)
	List(ctx context.Context) ([]*Program, error)
	// ListActive feeds the public site, ordered by schedule.
	ListActive(ctx context.Context) ([]*Program, error)
	Update(ctx context.Context, p *Program) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
}
