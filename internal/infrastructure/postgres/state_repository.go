package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var (
	_ repository.StateRepository      = (*StateRepo)(nil)
	_ repository.HistoryRepository    = (*HistoryRepo)(nil)
	_ repository.CatalogRepository    = (*CatalogRepo)(nil)
	_ repository.AuditTrailRepository = (*AuditTrailRepo)(nil)
)

// StateRepo puntero de estado de las entidades con estado. La tabla sale de StateKind.Table(),
// nunca de la entrada del usuario.
type StateRepo struct {
	q Querier
}

// NewStateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStateRepository(q Querier) *StateRepo {
	return &StateRepo{q: q}
}

// GetState obtiene el estado actual; (nil, nil) si la entidad no existe.
func (r *StateRepo) GetState(ctx context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error) {
	return r.get(ctx, kind, entityID, "")
}

// GetStateForUpdate obtiene el estado y bloquea la fila (SELECT FOR UPDATE).
func (r *StateRepo) GetStateForUpdate(ctx context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error) {
	return r.get(ctx, kind, entityID, " FOR UPDATE")
}

func (r *StateRepo) get(ctx context.Context, kind entity.StateKind, entityID, lock string) (*entity.StateRef, error) {
	if !kind.Stateful() {
		return nil, domain.ErrInvalidInput
	}
	query := `SELECT state_id FROM ` + kind.Table() + ` WHERE id = $1` + lock
	ref := entity.StateRef{Kind: kind, EntityID: entityID}
	if err := r.q.QueryRow(ctx, query, entityID).Scan(&ref.StateID); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get state %s: %w", kind, err)
	}
	return &ref, nil
}

// SetState sobrescribe el puntero de estado (y los campos de modificación propios del tipo).
func (r *StateRepo) SetState(ctx context.Context, kind entity.StateKind, entityID, stateID, actorID string, at time.Time) error {
	var (
		query string
		args  []any
	)
	switch kind {
	case entity.KindEquipment:
		query = `UPDATE equipment SET state_id = $2, modified_by = $3, modified_at = $4 WHERE id = $1`
		args = []any{entityID, stateID, actorID, at}
	case entity.KindAnalysis:
		query = `UPDATE analyses SET state_id = $2, last_change = $3 WHERE id = $1`
		args = []any{entityID, stateID, at}
	case entity.KindManufacturing, entity.KindSamplingRequest:
		query = `UPDATE ` + kind.Table() + ` SET state_id = $2 WHERE id = $1`
		args = []any{entityID, stateID}
	default:
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set state %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HistoryRepo histórico append-only; una tabla por tipo.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta el registro y asigna el ID de la secuencia.
func (r *HistoryRepo) Append(ctx context.Context, rec *entity.HistoryRecord) error {
	table := rec.Kind.HistoryTable()
	if table == "" {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO ` + table + ` (entity_id, state_id, actor_id, date, observation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, rec.EntityID, rec.StateID, rec.ActorID, rec.Date, rec.Observation).Scan(&rec.ID); err != nil {
		return fmt.Errorf("insert history %s: %w", rec.Kind, err)
	}
	return nil
}

// ListByEntity histórico de la entidad, fecha ascendente y luego ID.
func (r *HistoryRepo) ListByEntity(ctx context.Context, kind entity.StateKind, entityID string) ([]*entity.HistoryRecord, error) {
	table := kind.HistoryTable()
	if table == "" {
		return nil, domain.ErrInvalidInput
	}
	query := `
		SELECT id, entity_id, state_id, actor_id, date, observation
		FROM ` + table + ` WHERE entity_id = $1
		ORDER BY date ASC, id ASC`
	rows, err := r.q.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("list history %s: %w", kind, err)
	}
	defer rows.Close()
	var list []*entity.HistoryRecord
	for rows.Next() {
		h := entity.HistoryRecord{Kind: kind}
		if err := rows.Scan(&h.ID, &h.EntityID, &h.StateID, &h.ActorID, &h.Date, &h.Observation); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// CatalogRepo catálogos de estados; una tabla por tipo.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// List estados del tipo ordenados por nombre.
func (r *CatalogRepo) List(ctx context.Context, kind entity.StateKind) ([]*entity.CatalogState, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	rows, err := r.q.Query(ctx, `SELECT id, name FROM `+kind.CatalogTable()+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalog %s: %w", kind, err)
	}
	defer rows.Close()
	var list []*entity.CatalogState
	for rows.Next() {
		s := entity.CatalogState{Kind: kind}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByID estado por ID; (nil, nil) si no existe.
func (r *CatalogRepo) GetByID(ctx context.Context, kind entity.StateKind, id string) (*entity.CatalogState, error) {
	return r.getOne(ctx, kind, `id = $1`, id)
}

// GetByName estado por nombre sin distinguir mayúsculas; (nil, nil) si no existe.
func (r *CatalogRepo) GetByName(ctx context.Context, kind entity.StateKind, name string) (*entity.CatalogState, error) {
	return r.getOne(ctx, kind, `lower(name) = lower($1)`, name)
}

func (r *CatalogRepo) getOne(ctx context.Context, kind entity.StateKind, where string, arg string) (*entity.CatalogState, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	s := entity.CatalogState{Kind: kind}
	err := r.q.QueryRow(ctx, `SELECT id, name FROM `+kind.CatalogTable()+` WHERE `+where, arg).Scan(&s.ID, &s.Name)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog %s: %w", kind, err)
	}
	return &s, nil
}

// Rename cambia el nombre conservando el ID.
func (r *CatalogRepo) Rename(ctx context.Context, kind entity.StateKind, id, name string) error {
	if !kind.Valid() {
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx, `UPDATE `+kind.CatalogTable()+` SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("rename catalog %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AuditTrailRepo audit trail append-only.
type AuditTrailRepo struct {
	q Querier
}

// NewAuditTrailRepository construye el adaptador.
func NewAuditTrailRepository(q Querier) *AuditTrailRepo {
	return &AuditTrailRepo{q: q}
}

// Append inserta las entradas en un solo batch y asigna sus IDs.
func (r *AuditTrailRepo) Append(ctx context.Context, entries ...*entity.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO audit_trail (table_name, record_id, column_name, old_value, new_value, action, actor_id, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.Table, e.RecordID, e.Column, e.OldValue, e.NewValue, e.Action, e.ActorID, e.Timestamp)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for _, e := range entries {
		if err := br.QueryRow().Scan(&e.ID); err != nil {
			return fmt.Errorf("insert audit trail: %w", err)
		}
	}
	return nil
}

// ListByRecord entradas de un registro en orden de inserción.
func (r *AuditTrailRepo) ListByRecord(ctx context.Context, table, recordID string) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, table_name, record_id, column_name, old_value, new_value, action, actor_id, ts
		FROM audit_trail WHERE table_name = $1 AND record_id = $2
		ORDER BY ts ASC, id ASC`
	rows, err := r.q.Query(ctx, query, table, recordID)
	if err != nil {
		return nil, fmt.Errorf("list audit trail: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.Table, &e.RecordID, &e.Column, &e.OldValue, &e.NewValue, &e.Action, &e.ActorID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit trail: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
