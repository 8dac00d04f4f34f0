// Package memory implementa el Ledger Store completo en memoria: todos los puertos de
// repository y un TxRunner con rollback real (snapshot restaurado si fn falla).
// Las transacciones se serializan con un único mutex. Se usa en tests y con APP_STORE=memory.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var (
	_ repository.TxRunner                = (*Store)(nil)
	_ repository.StateRepository         = (*stateRepo)(nil)
	_ repository.HistoryRepository       = (*historyRepo)(nil)
	_ repository.CatalogRepository       = (*catalogRepo)(nil)
	_ repository.AuditTrailRepository    = (*auditRepo)(nil)
	_ repository.EquipmentRepository     = (*equipmentRepo)(nil)
	_ repository.ManufacturingRepository = (*manufacturingRepo)(nil)
	_ repository.SamplingRepository      = (*samplingRepo)(nil)
	_ repository.AnalysisRepository      = (*analysisRepo)(nil)
	_ repository.SpecificationRepository = (*specificationRepo)(nil)
	_ repository.PowderLotRepository     = (*lotRepo)(nil)
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.MediaRepository         = (*mediaRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
	_ repository.DashboardRepository     = (*dashboardRepo)(nil)
)

// Store base de datos en memoria.
type Store struct {
	mu       sync.Mutex
	data     *tables
	failures map[string]error
}

type tables struct {
	catalogs     map[entity.StateKind]map[string]*entity.CatalogState
	history      map[entity.StateKind][]*entity.HistoryRecord
	audit        []*entity.AuditEntry
	historySeq   int64
	auditSeq     int64
	equipment    map[string]*entity.Equipment
	calibrations map[string]*entity.Calibration
	orders       map[string]*entity.ManufacturingOrder
	processes    map[string]*entity.ManufacturingProcess
	requests     map[string]*entity.SamplingRequest
	sessions     map[string]*entity.SamplingSession
	samples      map[string]*entity.Sample
	shipments    map[string]*entity.SampleShipment
	receptions   map[string]*entity.SampleReception
	analyses     map[string]*entity.Analysis
	incubations  map[string]*entity.Incubation
	results      map[string]*entity.AnalysisResult
	usages       map[string]*entity.MediaUsage
	specs        map[string]*entity.Specification
	lots         map[string]*entity.PowderLot
	stock        map[string]*entity.StockBalance
	mediaOrders  map[string]*entity.MediaPreparationOrder
	consumptions map[string]*entity.PowderConsumption
	batches      map[string]*entity.PreparedMediaBatch
	approvals    map[string]*entity.MediaApproval
	users        map[string]*entity.User
}

// New crea un store vacío (sin catálogos; ver SeedState / SeedDefaultCatalogs).
func New() *Store {
	t := &tables{
		catalogs:     make(map[entity.StateKind]map[string]*entity.CatalogState),
		history:      make(map[entity.StateKind][]*entity.HistoryRecord),
		equipment:    make(map[string]*entity.Equipment),
		calibrations: make(map[string]*entity.Calibration),
		orders:       make(map[string]*entity.ManufacturingOrder),
		processes:    make(map[string]*entity.ManufacturingProcess),
		requests:     make(map[string]*entity.SamplingRequest),
		sessions:     make(map[string]*entity.SamplingSession),
		samples:      make(map[string]*entity.Sample),
		shipments:    make(map[string]*entity.SampleShipment),
		receptions:   make(map[string]*entity.SampleReception),
		analyses:     make(map[string]*entity.Analysis),
		incubations:  make(map[string]*entity.Incubation),
		results:      make(map[string]*entity.AnalysisResult),
		usages:       make(map[string]*entity.MediaUsage),
		specs:        make(map[string]*entity.Specification),
		lots:         make(map[string]*entity.PowderLot),
		stock:        make(map[string]*entity.StockBalance),
		mediaOrders:  make(map[string]*entity.MediaPreparationOrder),
		consumptions: make(map[string]*entity.PowderConsumption),
		batches:      make(map[string]*entity.PreparedMediaBatch),
		approvals:    make(map[string]*entity.MediaApproval),
		users:        make(map[string]*entity.User),
	}
	for _, k := range append([]entity.StateKind{entity.KindQC}, entity.StatefulKinds...) {
		t.catalogs[k] = make(map[string]*entity.CatalogState)
	}
	return &Store{data: t, failures: make(map[string]error)}
}

// Run ejecuta fn con repos que ven y modifican el store bajo el mutex. Si fn devuelve error,
// todas sus escrituras se descartan.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(s.repos(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repos repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	b := base{s: s, inTx: inTx}
	return repository.Repos{
		States:         &stateRepo{b},
		History:        &historyRepo{b},
		Catalog:        &catalogRepo{b},
		Audit:          &auditRepo{b},
		Equipment:      &equipmentRepo{b},
		Manufacturing:  &manufacturingRepo{b},
		Sampling:       &samplingRepo{b},
		Analysis:       &analysisRepo{b},
		Specifications: &specificationRepo{b},
		Lots:           &lotRepo{b},
		Stock:          &stockRepo{b},
		Media:          &mediaRepo{b},
		Users:          &userRepo{b},
		Dashboard:      &dashboardRepo{b},
	}
}

// FailOn hace que la operación op ("History.Append", "Stock.Decrement"...) devuelva err
// hasta que se llame ClearFailures. Sirve para probar rollback.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina las fallas inyectadas.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// SeedState agrega un estado al catálogo del tipo y lo devuelve.
func (s *Store) SeedState(kind entity.StateKind, name string) *entity.CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &entity.CatalogState{ID: uuid.New().String(), Kind: kind, Name: name}
	if s.data.catalogs[kind] == nil {
		s.data.catalogs[kind] = make(map[string]*entity.CatalogState)
	}
	s.data.catalogs[kind][st.ID] = st
	cp := *st
	return &cp
}

// SeedSpecification agrega una especificación (datos de referencia).
func (s *Store) SeedSpecification(spec entity.Specification) *entity.Specification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec.ID == "" {
		spec.ID = uuid.New().String()
	}
	s.data.specs[spec.ID] = &spec
	cp := spec
	return &cp
}

// SeedDefaultCatalogs siembra entity.DefaultCatalogs con los mismos IDs que la migración SQL.
func (s *Store) SeedDefaultCatalogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, names := range entity.DefaultCatalogs {
		for _, n := range names {
			id := entity.SeedStateID(kind, n)
			s.data.catalogs[kind][id] = &entity.CatalogState{ID: id, Kind: kind, Name: n}
		}
	}
}

// base da a cada repo acceso al store; dentro de Run el mutex ya está tomado.
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (b base) fail(op string) error {
	return b.s.failures[op]
}

func (b base) t() *tables { return b.s.data }

func (t *tables) clone() *tables {
	c := &tables{
		catalogs:     make(map[entity.StateKind]map[string]*entity.CatalogState, len(t.catalogs)),
		history:      make(map[entity.StateKind][]*entity.HistoryRecord, len(t.history)),
		audit:        cloneSlice(t.audit),
		historySeq:   t.historySeq,
		auditSeq:     t.auditSeq,
		equipment:    cloneMap(t.equipment),
		calibrations: cloneMap(t.calibrations),
		orders:       cloneMap(t.orders),
		processes:    cloneMap(t.processes),
		requests:     cloneMap(t.requests),
		sessions:     cloneMap(t.sessions),
		samples:      cloneMap(t.samples),
		shipments:    cloneMap(t.shipments),
		receptions:   cloneMap(t.receptions),
		analyses:     cloneMap(t.analyses),
		incubations:  cloneMap(t.incubations),
		results:      cloneMap(t.results),
		usages:       cloneMap(t.usages),
		specs:        cloneMap(t.specs),
		lots:         cloneMap(t.lots),
		stock:        cloneMap(t.stock),
		mediaOrders:  cloneMap(t.mediaOrders),
		consumptions: cloneMap(t.consumptions),
		batches:      cloneMap(t.batches),
		approvals:    cloneMap(t.approvals),
		users:        cloneMap(t.users),
	}
	for k, m := range t.catalogs {
		c.catalogs[k] = cloneMap(m)
	}
	for k, list := range t.history {
		c.history[k] = cloneSlice(list)
	}
	return c
}

// cloneMap copia el mapa y cada struct apuntado; los campos puntero internos se reemplazan,
// nunca se mutan, así que compartirlos es seguro.
func cloneMap[T any](m map[string]*T) map[string]*T {
	c := maps.Clone(m)
	for k, v := range c {
		cp := *v
		c[k] = &cp
	}
	return c
}

func cloneSlice[T any](list []*T) []*T {
	c := make([]*T, len(list))
	for i, v := range list {
		cp := *v
		c[i] = &cp
	}
	return c
}

// copyOf devuelve una copia del struct para que el caller no comparta memoria con el store.
func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
