package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

type stateRepo struct{ base }

func (r *stateRepo) GetState(_ context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error) {
	defer r.lock()()
	if err := r.fail("States.GetState"); err != nil {
		return nil, err
	}
	return r.get(kind, entityID)
}

func (r *stateRepo) GetStateForUpdate(_ context.Context, kind entity.StateKind, entityID string) (*entity.StateRef, error) {
	defer r.lock()()
	if err := r.fail("States.GetStateForUpdate"); err != nil {
		return nil, err
	}
	return r.get(kind, entityID)
}

func (r *stateRepo) get(kind entity.StateKind, entityID string) (*entity.StateRef, error) {
	if !kind.Stateful() {
		return nil, domain.ErrInvalidInput
	}
	var stateID string
	switch kind {
	case entity.KindEquipment:
		if e, ok := r.t().equipment[entityID]; ok {
			stateID = e.StateID
		}
	case entity.KindManufacturing:
		if p, ok := r.t().processes[entityID]; ok {
			stateID = p.StateID
		}
	case entity.KindSamplingRequest:
		if s, ok := r.t().requests[entityID]; ok {
			stateID = s.StateID
		}
	case entity.KindAnalysis:
		if a, ok := r.t().analyses[entityID]; ok {
			stateID = a.StateID
		}
	}
	if stateID == "" {
		return nil, nil
	}
	return &entity.StateRef{Kind: kind, EntityID: entityID, StateID: stateID}, nil
}

func (r *stateRepo) SetState(_ context.Context, kind entity.StateKind, entityID, stateID, actorID string, at time.Time) error {
	defer r.lock()()
	if err := r.fail("States.SetState"); err != nil {
		return err
	}
	switch kind {
	case entity.KindEquipment:
		e, ok := r.t().equipment[entityID]
		if !ok {
			return domain.ErrNotFound
		}
		e.StateID = stateID
		e.Touch(actorID, at)
	case entity.KindManufacturing:
		p, ok := r.t().processes[entityID]
		if !ok {
			return domain.ErrNotFound
		}
		p.StateID = stateID
	case entity.KindSamplingRequest:
		s, ok := r.t().requests[entityID]
		if !ok {
			return domain.ErrNotFound
		}
		s.StateID = stateID
	case entity.KindAnalysis:
		a, ok := r.t().analyses[entityID]
		if !ok {
			return domain.ErrNotFound
		}
		a.StateID = stateID
		a.LastChange = at
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

type historyRepo struct{ base }

func (r *historyRepo) Append(_ context.Context, rec *entity.HistoryRecord) error {
	defer r.lock()()
	if err := r.fail("History.Append"); err != nil {
		return err
	}
	if !rec.Kind.Stateful() {
		return domain.ErrInvalidInput
	}
	t := r.t()
	t.historySeq++
	rec.ID = t.historySeq
	t.history[rec.Kind] = append(t.history[rec.Kind], copyOf(rec))
	return nil
}

func (r *historyRepo) ListByEntity(_ context.Context, kind entity.StateKind, entityID string) ([]*entity.HistoryRecord, error) {
	defer r.lock()()
	if err := r.fail("History.ListByEntity"); err != nil {
		return nil, err
	}
	var list []*entity.HistoryRecord
	for _, h := range r.t().history[kind] {
		if h.EntityID == entityID {
			list = append(list, copyOf(h))
		}
	}
	slices.SortStableFunc(list, func(a, b *entity.HistoryRecord) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmpInt64(a.ID, b.ID)
	})
	return list, nil
}

// HistoryCount total de registros de histórico en todos los tipos (para tests).
func (s *Store) HistoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.data.history {
		n += len(list)
	}
	return n
}

type catalogRepo struct{ base }

func (r *catalogRepo) List(_ context.Context, kind entity.StateKind) ([]*entity.CatalogState, error) {
	defer r.lock()()
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list := make([]*entity.CatalogState, 0, len(r.t().catalogs[kind]))
	for _, st := range r.t().catalogs[kind] {
		list = append(list, copyOf(st))
	}
	slices.SortFunc(list, func(a, b *entity.CatalogState) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

func (r *catalogRepo) GetByID(_ context.Context, kind entity.StateKind, id string) (*entity.CatalogState, error) {
	defer r.lock()()
	if err := r.fail("Catalog.GetByID"); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return copyOf(r.t().catalogs[kind][id]), nil
}

func (r *catalogRepo) GetByName(_ context.Context, kind entity.StateKind, name string) (*entity.CatalogState, error) {
	defer r.lock()()
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	for _, st := range r.t().catalogs[kind] {
		if strings.EqualFold(st.Name, name) {
			return copyOf(st), nil
		}
	}
	return nil, nil
}

func (r *catalogRepo) Rename(_ context.Context, kind entity.StateKind, id, name string) error {
	defer r.lock()()
	if err := r.fail("Catalog.Rename"); err != nil {
		return err
	}
	st, ok := r.t().catalogs[kind][id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.t().catalogs[kind] {
		if other.ID != id && other.Name == name {
			return domain.ErrDuplicate
		}
	}
	st.Name = name
	return nil
}

type auditRepo struct{ base }

func (r *auditRepo) Append(_ context.Context, entries ...*entity.AuditEntry) error {
	defer r.lock()()
	if err := r.fail("Audit.Append"); err != nil {
		return err
	}
	t := r.t()
	for _, e := range entries {
		t.auditSeq++
		e.ID = t.auditSeq
		t.audit = append(t.audit, copyOf(e))
	}
	return nil
}

func (r *auditRepo) ListByRecord(_ context.Context, table, recordID string) ([]*entity.AuditEntry, error) {
	defer r.lock()()
	var list []*entity.AuditEntry
	for _, e := range r.t().audit {
		if e.Table == table && e.RecordID == recordID {
			list = append(list, copyOf(e))
		}
	}
	slices.SortStableFunc(list, func(a, b *entity.AuditEntry) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmpInt64(a.ID, b.ID)
	})
	return list, nil
}

// AuditCount total de entradas del audit trail (para tests).
func (s *Store) AuditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.audit)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
