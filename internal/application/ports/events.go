package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StateChangedEvent se publica después del commit de un cambio de estado (incluida la creación).
type StateChangedEvent struct {
	Kind       string    `json:"kind"`
	EntityID   string    `json:"entity_id"`
	FromState  string    `json:"from_state_id,omitempty"`
	ToState    string    `json:"to_state_id"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MediaPreparedEvent se publica después del commit de una preparación de medio.
type MediaPreparedEvent struct {
	OrderID     string          `json:"order_id"`
	BatchID     string          `json:"batch_id"`
	Lot         string          `json:"lot"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	ActorID     string          `json:"actor_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// EventPublisher puerto de salida para notificar eventos de trazabilidad a otros sistemas.
// Es best-effort: un error de publicación nunca revierte la operación ya confirmada.
type EventPublisher interface {
	PublishStateChanged(ctx context.Context, ev StateChangedEvent) error
	PublishMediaPrepared(ctx context.Context, ev MediaPreparedEvent) error
}

// NoopPublisher descarta los eventos (broker no configurado).
type NoopPublisher struct{}

func (NoopPublisher) PublishStateChanged(context.Context, StateChangedEvent) error   { return nil }
func (NoopPublisher) PublishMediaPrepared(context.Context, MediaPreparedEvent) error { return nil }
