// Package live tracks what is currently on air.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/domain"
	"github.com/onairhq/onair/internal/store/redis"
)

// Store is the cache and broadcast surface the service needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// DefaultStatus is shown before any operator has set one.
var DefaultStatus = domain.LiveStatus{
	Program: "Programación musical",
	Host:    "",
	Track:   "",
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Current returns the on-air snapshot, falling back to the default when none
// has been set yet.
func (s *Service) Current(ctx context.Context) (*domain.LiveStatus, error) {
	raw, err := s.store.Get(ctx, redis.LiveStatusKey)
	if errors.Is(err, domain.ErrNotFound) {
		status := DefaultStatus
		return &status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("live.Current: %w", err)
	}

	var status domain.LiveStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("live.Current: decode: %w", err)
	}
	return &status, nil
}

// Update stores the new snapshot and broadcasts it. The broadcast is best
// effort: a pub/sub hiccup must not fail the update itself.
func (s *Service) Update(ctx context.Context, status *domain.LiveStatus, updatedBy string) (*domain.LiveStatus, error) {
	status.UpdatedBy = updatedBy
	status.UpdatedAt = time.Now()

	payload, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("live.Update: encode: %w", err)
	}

	if err := s.store.Set(ctx, redis.LiveStatusKey, payload); err != nil {
		return nil, fmt.Errorf("live.Update: %w", err)
	}

	if err := s.store.Publish(ctx, redis.LiveChannel, payload); err != nil {
		log.Warn().Err(err).Msg("live: failed to broadcast status update")
	}

	return status, nil
}

// Watch subscribes to status broadcasts for the websocket feed.
func (s *Service) Watch(ctx context.Context) (<-chan []byte, func(), error) {
	ch, cleanup, err := s.store.Subscribe(ctx, redis.LiveChannel)
	if err != nil {
		return nil, nil, fmt.Errorf("live.Watch: %w", err)
	}
	return ch, cleanup, nil
}
