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

type ProgramRepo struct {
	pool *pgxpool.Pool
}

func NewProgramRepo(pool *pgxpool.Pool) *ProgramRepo {
	return &ProgramRepo{pool: pool}
}

func (r *ProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO programs (id, title, description, host, schedule, image_url, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Title, nilIfEmpty(p.Description), nilIfEmpty(p.Host),
		p.Schedule, nilIfEmpty(p.ImageURL), p.IsActive, p.CreatedBy,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("programRepo.Create: %w", err)
	}

	return nil
}

func (r *ProgramRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Program, error) {
	var p domain.Program
	var description, host, imageURL, creatorName *string

	err := r.pool.QueryRow(ctx,
		`SELECT p.id, p.title, p.description, p.host, p.schedule, p.image_url, p.is_active,
		        p.created_by, u.username, p.created_at, p.updated_at
		 FROM programs p
		 LEFT JOIN users u ON u.id = p.created_by
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &description, &host, &p.Schedule, &imageURL, &p.IsActive,
		&p.CreatedBy, &creatorName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("programRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("programRepo.GetByID: %w", err)
	}

	p.Description = derefStr(description)
	p.Host = derefStr(host)
	p.ImageURL = derefStr(imageURL)
	p.CreatorName = derefStr(creatorName)

	return &p, nil
}

func (r *ProgramRepo) List(ctx context.Context) ([]*domain.Program, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.title, p.description, p.host, p.schedule, p.image_url, p.is_active,
		        p.created_by, u.username, p.created_at, p.updated_at
		 FROM programs p
		 LEFT JOIN users u ON u.id = p.created_by
		 ORDER BY p.created_at DESC, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("programRepo.List: %w", err)
	}
	defer rows.Close()

	return scanPrograms(rows, "programRepo.List")
}

func (r *ProgramRepo) ListActive(ctx context.Context) ([]*domain.Program, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.title, p.description, p.host, p.schedule, p.image_url, p.is_active,
		        p.created_by, u.username, p.created_at, p.updated_at
		 FROM programs p
		 LEFT JOIN users u ON u.id = p.created_by
		 WHERE p.is_active = true
		 ORDER BY p.schedule, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("programRepo.ListActive: %w", err)
	}
	defer rows.Close()

	return scanPrograms(rows, "programRepo.ListActive")
}

// Update changes content fields only. IsActive has its own statement.
func (r *ProgramRepo) Update(ctx context.Context, p *domain.Program) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs SET title = $1, description = $2, host = $3, schedule = $4, image_url = $5, updated_at = now()
		 WHERE id = $6`,
		p.Title, nilIfEmpty(p.Description), nilIfEmpty(p.Host),
		p.Schedule, nilIfEmpty(p.ImageURL), p.ID,
	)
	if err != nil {
		return fmt.Errorf("programRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("programRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ProgramRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs SET is_active = $1, updated_at = now() WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("programRepo.SetActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("programRepo.SetActive: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ProgramRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("programRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("programRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ProgramRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM programs WHERE is_active = true`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("programRepo.CountActive: %w", err)
	}
	return n, nil
}

func scanPrograms(rows pgx.Rows, caller string) ([]*domain.Program, error) {
	var programs []*domain.Program
	for rows.Next() {
		var p domain.Program
		var description, host, imageURL, creatorName *string

		if err := rows.Scan(&p.ID, &p.Title, &description, &host, &p.Schedule, &imageURL, &p.IsActive,
			&p.CreatedBy, &creatorName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		p.Description = derefStr(description)
		p.Host = derefStr(host)
		p.ImageURL = derefStr(imageURL)
		p.CreatorName = derefStr(creatorName)
		programs = append(programs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return programs, nil
}
