package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

type equipmentRepo struct{ base }

func (r *equipmentRepo) Create(_ context.Context, e *entity.Equipment) error {
	defer r.lock()()
	if err := r.fail("Equipment.Create"); err != nil {
		return err
	}
	for _, other := range r.t().equipment {
		if other.Code == e.Code {
			return fmt.Errorf("%w: equipo %s", domain.ErrDuplicate, e.Code)
		}
	}
	r.t().equipment[e.ID] = copyOf(e)
	return nil
}

func (r *equipmentRepo) GetByID(_ context.Context, id string) (*entity.Equipment, error) {
	defer r.lock()()
	return copyOf(r.t().equipment[id]), nil
}

func (r *equipmentRepo) UpdateAudit(_ context.Context, e *entity.Equipment) error {
	defer r.lock()()
	if err := r.fail("Equipment.UpdateAudit"); err != nil {
		return err
	}
	cur, ok := r.t().equipment[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Auditable = e.Auditable
	return nil
}

func (r *equipmentRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Equipment, error) {
	defer r.lock()()
	list := make([]*entity.Equipment, 0, len(r.t().equipment))
	for _, e := range r.t().equipment {
		if activeOnly && !e.Active {
			continue
		}
		list = append(list, copyOf(e))
	}
	slices.SortFunc(list, func(a, b *entity.Equipment) int { return strings.Compare(a.Code, b.Code) })
	return page(list, limit, offset), nil
}

func (r *equipmentRepo) CreateCalibration(_ context.Context, c *entity.Calibration) error {
	defer r.lock()()
	if err := r.fail("Equipment.CreateCalibration"); err != nil {
		return err
	}
	if _, ok := r.t().equipment[c.EquipmentID]; !ok {
		return domain.ErrNotFound
	}
	r.t().calibrations[c.ID] = copyOf(c)
	return nil
}

func (r *equipmentRepo) ListCalibrations(_ context.Context, equipmentID string) ([]*entity.Calibration, error) {
	defer r.lock()()
	var list []*entity.Calibration
	for _, c := range r.t().calibrations {
		if c.EquipmentID == equipmentID {
			list = append(list, copyOf(c))
		}
	}
	slices.SortFunc(list, func(a, b *entity.Calibration) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

type manufacturingRepo struct{ base }

func (r *manufacturingRepo) CreateOrder(_ context.Context, o *entity.ManufacturingOrder) error {
	defer r.lock()()
	if err := r.fail("Manufacturing.CreateOrder"); err != nil {
		return err
	}
	for _, other := range r.t().orders {
		if other.Code == o.Code {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.Code)
		}
	}
	r.t().orders[o.ID] = copyOf(o)
	return nil
}

func (r *manufacturingRepo) GetOrder(_ context.Context, id string) (*entity.ManufacturingOrder, error) {
	defer r.lock()()
	return copyOf(r.t().orders[id]), nil
}

func (r *manufacturingRepo) CreateProcess(_ context.Context, p *entity.ManufacturingProcess) error {
	defer r.lock()()
	if err := r.fail("Manufacturing.CreateProcess"); err != nil {
		return err
	}
	if _, ok := r.t().orders[p.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.t().processes[p.ID] = copyOf(p)
	return nil
}

func (r *manufacturingRepo) GetProcess(_ context.Context, id string) (*entity.ManufacturingProcess, error) {
	defer r.lock()()
	return copyOf(r.t().processes[id]), nil
}

func (r *manufacturingRepo) ListProcessesByOrder(_ context.Context, orderID string) ([]*entity.ManufacturingProcess, error) {
	defer r.lock()()
	var list []*entity.ManufacturingProcess
	for _, p := range r.t().processes {
		if p.OrderID == orderID {
			list = append(list, copyOf(p))
		}
	}
	slices.SortFunc(list, func(a, b *entity.ManufacturingProcess) int {
		switch {
		case a.StartedAt != nil && b.StartedAt == nil:
			return -1
		case a.StartedAt == nil && b.StartedAt != nil:
			return 1
		case a.StartedAt != nil && b.StartedAt != nil:
			if c := a.StartedAt.Compare(*b.StartedAt); c != 0 {
				return c
			}
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

type samplingRepo struct{ base }

func (r *samplingRepo) CreateRequest(_ context.Context, s *entity.SamplingRequest) error {
	defer r.lock()()
	if err := r.fail("Sampling.CreateRequest"); err != nil {
		return err
	}
	r.t().requests[s.ID] = copyOf(s)
	return nil
}

func (r *samplingRepo) GetRequest(_ context.Context, id string) (*entity.SamplingRequest, error) {
	defer r.lock()()
	return copyOf(r.t().requests[id]), nil
}

func (r *samplingRepo) CreateSession(_ context.Context, s *entity.SamplingSession) error {
	defer r.lock()()
	if err := r.fail("Sampling.CreateSession"); err != nil {
		return err
	}
	if _, ok := r.t().requests[s.RequestID]; !ok {
		return domain.ErrNotFound
	}
	cp := copyOf(s)
	cp.Samples = nil
	r.t().sessions[s.ID] = cp
	return nil
}

func (r *samplingRepo) CreateSample(_ context.Context, s *entity.Sample) error {
	defer r.lock()()
	if err := r.fail("Sampling.CreateSample"); err != nil {
		return err
	}
	if _, ok := r.t().sessions[s.SessionID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.t().samples {
		if other.Label == s.Label {
			return fmt.Errorf("%w: etiqueta %s", domain.ErrDuplicate, s.Label)
		}
	}
	r.t().samples[s.ID] = copyOf(s)
	return nil
}

func (r *samplingRepo) GetSample(_ context.Context, id string) (*entity.Sample, error) {
	defer r.lock()()
	return copyOf(r.t().samples[id]), nil
}

func (r *samplingRepo) CreateShipment(_ context.Context, s *entity.SampleShipment) error {
	defer r.lock()()
	if err := r.fail("Sampling.CreateShipment"); err != nil {
		return err
	}
	if _, ok := r.t().samples[s.SampleID]; !ok {
		return domain.ErrNotFound
	}
	r.t().shipments[s.ID] = copyOf(s)
	return nil
}

func (r *samplingRepo) GetShipment(_ context.Context, id string) (*entity.SampleShipment, error) {
	defer r.lock()()
	return copyOf(r.t().shipments[id]), nil
}

func (r *samplingRepo) CreateReception(_ context.Context, rec *entity.SampleReception) error {
	defer r.lock()()
	if err := r.fail("Sampling.CreateReception"); err != nil {
		return err
	}
	if _, ok := r.t().shipments[rec.ShipmentID]; !ok {
		return domain.ErrNotFound
	}
	r.t().receptions[rec.ID] = copyOf(rec)
	return nil
}

func (r *samplingRepo) GetReception(_ context.Context, id string) (*entity.SampleReception, error) {
	defer r.lock()()
	return copyOf(r.t().receptions[id]), nil
}

type analysisRepo struct{ base }

func (r *analysisRepo) Create(_ context.Context, a *entity.Analysis) error {
	defer r.lock()()
	if err := r.fail("Analysis.Create"); err != nil {
		return err
	}
	r.t().analyses[a.ID] = copyOf(a)
	return nil
}

func (r *analysisRepo) GetByID(_ context.Context, id string) (*entity.Analysis, error) {
	defer r.lock()()
	return copyOf(r.t().analyses[id]), nil
}

func (r *analysisRepo) CreateIncubation(_ context.Context, i *entity.Incubation) error {
	defer r.lock()()
	if err := r.fail("Analysis.CreateIncubation"); err != nil {
		return err
	}
	r.t().incubations[i.ID] = copyOf(i)
	return nil
}

func (r *analysisRepo) CreateResult(_ context.Context, res *entity.AnalysisResult) error {
	defer r.lock()()
	if err := r.fail("Analysis.CreateResult"); err != nil {
		return err
	}
	r.t().results[res.ID] = copyOf(res)
	return nil
}

func (r *analysisRepo) ListResults(_ context.Context, analysisID string) ([]*entity.AnalysisResult, error) {
	defer r.lock()()
	var list []*entity.AnalysisResult
	for _, res := range r.t().results {
		if res.AnalysisID == analysisID {
			list = append(list, copyOf(res))
		}
	}
	slices.SortFunc(list, func(a, b *entity.AnalysisResult) int {
		if c := a.ReportedAt.Compare(b.ReportedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

func (r *analysisRepo) CreateMediaUsage(_ context.Context, u *entity.MediaUsage) error {
	defer r.lock()()
	if err := r.fail("Analysis.CreateMediaUsage"); err != nil {
		return err
	}
	r.t().usages[u.ID] = copyOf(u)
	return nil
}

type specificationRepo struct{ base }

func (r *specificationRepo) GetByID(_ context.Context, id string) (*entity.Specification, error) {
	defer r.lock()()
	return copyOf(r.t().specs[id]), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
