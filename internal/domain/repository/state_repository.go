package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// StateRepository lee y escribe el puntero de estado actual de las entidades con estado.
// Get* devuelven (nil, nil) si la entidad no existe.
type StateRepository interface {
	GetState(ctx context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error)
	// GetStateForUpdate bloquea la fila de la entidad (SELECT FOR UPDATE).
	GetStateForUpdate(ctx context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error)
	SetState(ctx context.Context, kind entity.StateKind, entityID, stateID, actorID string, at time.Time) error
}

// HistoryRepository histórico append-only de cambios de estado. No existe update ni delete.
type HistoryRepository interface {
	// Append inserta el registro y le asigna ID.
	Append(ctx context.Context, rec *entity.HistoryRecord) error
	// ListByEntity devuelve los registros ordenados por fecha ascendente y luego ID.
	ListByEntity(ctx context.Context, kind entity.StateKind, entityID string) ([]*entity.HistoryRecord, error)
}

// CatalogRepository catálogos de estados por tipo de entidad (datos de referencia).
type CatalogRepository interface {
	List(ctx context.Context, kind entity.StateKind) ([]*entity.CatalogState, error)
	GetByID(ctx context.Context, kind entity.StateKind, id string) (*entity.CatalogState, error)
	GetByName(ctx context.Context, kind entity.StateKind, name string) (*entity.CatalogState, error)
	Rename(ctx context.Context, kind entity.StateKind, id, name string) error
}

// AuditTrailRepository audit trail append-only.
type AuditTrailRepository interface {
	Append(ctx context.Context, entries ...*entity.AuditEntry) error
	ListByRecord(ctx context.Context, table, recordID string) ([]*entity.AuditEntry, error)
}
