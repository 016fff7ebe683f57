package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onairhq/onair/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: marshal details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, actor_id, action, resource, resource_id, details, origin_ip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.ActorID, entry.Action,
		nilIfEmpty(entry.Resource), nilIfEmpty(entry.ResourceID),
		details, nilIfEmpty(entry.OriginIP), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.actor_id, u.username, a.action, a.resource, a.resource_id, a.details, a.origin_ip, a.created_at
		 FROM activity_log a
		 LEFT JOIN users u ON u.id = a.actor_id
		 ORDER BY a.created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.List: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows, "auditRepo.List")
}

func (r *AuditRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]*domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.actor_id, u.username, a.action, a.resource, a.resource_id, a.details, a.origin_ip, a.created_at
		 FROM activity_log a
		 LEFT JOIN users u ON u.id = a.actor_id
		 WHERE a.actor_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT $2`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByActor: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows, "auditRepo.ListByActor")
}

// Stats aggregates one row per day over the last N days, newest first.
func (r *AuditRepo) Stats(ctx context.Context, days int) ([]*domain.ActivityStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day,
		        count(*) AS total_actions,
		        count(DISTINCT actor_id) AS unique_actors,
		        count(*) FILTER (WHERE action = 'login') AS logins,
		        count(*) FILTER (WHERE action LIKE 'create%') AS creations,
		        count(*) FILTER (WHERE action LIKE 'update%') AS updates,
		        count(*) FILTER (WHERE action LIKE 'delete%') AS deletions
		 FROM activity_log
		 WHERE created_at >= now() - make_interval(days => $1)
		 GROUP BY created_at::date
		 ORDER BY created_at::date DESC`,
		days,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.Stats: %w", err)
	}
	defer rows.Close()

	var stats []*domain.ActivityStats
	for rows.Next() {
		var s domain.ActivityStats
		if err := rows.Scan(&s.Date, &s.TotalActions, &s.UniqueActors,
			&s.Logins, &s.Creations, &s.Updates, &s.Deletions); err != nil {
			return nil, fmt.Errorf("auditRepo.Stats: scan: %w", err)
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.Stats: rows: %w", err)
	}

	return stats, nil
}

func scanAuditEntries(rows pgx.Rows, caller string) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var actorName, resource, resourceID, originIP *string
		var details []byte

		if err := rows.Scan(
			&e.ID, &e.ActorID, &actorName, &e.Action,
			&resource, &resourceID, &details, &originIP, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("%s: unmarshal details: %w", caller, err)
			}
		}

		e.ActorName = derefStr(actorName)
		e.Resource = derefStr(resource)
		e.ResourceID = derefStr(resourceID)
		e.OriginIP = derefStr(originIP)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return entries, nil
}
