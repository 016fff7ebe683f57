// Package ws streams on-air status updates to listeners over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/domain"
)

// LiveFeed is the status source the hub streams from. *live.Service
// satisfies it.
type LiveFeed interface {
	Current(ctx context.Context) (*domain.LiveStatus, error)
	Watch(ctx context.Context) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by the live status feed.
type Hub struct {
	feed LiveFeed
}

// NewHub creates a new WebSocket hub.
func NewHub(feed LiveFeed) *Hub {
	return &Hub{feed: feed}
}

// ServeLive handles WebSocket connections for on-air status updates. The
// current snapshot is sent immediately, then every broadcast until the client
// disconnects.
func (h *Hub) ServeLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.feed.Watch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	// Late joiners get the current snapshot before the stream.
	if current, currentErr := h.feed.Current(ctx); currentErr == nil {
		if payload, marshalErr := json.Marshal(current); marshalErr == nil {
			if writeErr := conn.Write(ctx, websocket.MessageText, payload); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
