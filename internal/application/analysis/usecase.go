package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/conformance"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// CreateInput datos de un análisis; StateID es el estado inicial.
type CreateInput struct {
	SampleID        string
	ReceptionID     string
	MethodVersionID string
	SpecificationID *string
	StateID         string
	StartedAt       *time.Time
}

// IncubationInput registro de incubación.
type IncubationInput struct {
	AnalysisID  string
	EquipmentID string
	In          *time.Time
	Out         *time.Time
	Temperature *decimal.Decimal
	TempUnit    string
}

// ResultInput resultado reportado; Value puede ser numérico o texto.
type ResultInput struct {
	AnalysisID  string
	Value       string
	Unit        string
	Observation string
}

// UseCase análisis de laboratorio: estados, incubaciones, resultados y conformidad.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.AnalysisRepository
	specs    repository.SpecificationRepository
	engine   *statemachine.Engine
	metrics  ports.Metrics
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(
	txRunner repository.TxRunner,
	repo repository.AnalysisRepository,
	specs repository.SpecificationRepository,
	engine *statemachine.Engine,
	metrics ports.Metrics,
	log zerolog.Logger,
) *UseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{txRunner: txRunner, repo: repo, specs: specs, engine: engine, metrics: metrics, log: log}
}

// Create registra el análisis de una muestra recibida con su estado inicial.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, actorID string) (*entity.Analysis, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.SampleID == "":
		return nil, domain.Invalid("sample_id")
	case in.ReceptionID == "":
		return nil, domain.Invalid("reception_id")
	case in.MethodVersionID == "":
		return nil, domain.Invalid("method_version_id")
	case in.StateID == "":
		return nil, domain.Invalid("state_id")
	}
	now := uc.engine.Now()
	a := &entity.Analysis{
		ID:              uuid.New().String(),
		SampleID:        in.SampleID,
		ReceptionID:     in.ReceptionID,
		MethodVersionID: in.MethodVersionID,
		SpecificationID: in.SpecificationID,
		StateID:         in.StateID,
		StartedAt:       in.StartedAt,
		LastChange:      now,
		OperatorID:      actorID,
	}
	var rec *entity.HistoryRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		sample, err := tx.Sampling.GetSample(ctx, in.SampleID)
		if err != nil {
			return err
		}
		if sample == nil {
			return domain.ErrNotFound
		}
		rc, err := tx.Sampling.GetReception(ctx, in.ReceptionID)
		if err != nil {
			return err
		}
		if rc == nil {
			return domain.ErrNotFound
		}
		if rc.Decision == entity.ReceptionRejected {
			return fmt.Errorf("%w: la recepción %s fue rechazada", domain.ErrConflict, rc.ID)
		}
		if in.SpecificationID != nil {
			spec, err := tx.Specifications.GetByID(ctx, *in.SpecificationID)
			if err != nil {
				return err
			}
			if spec == nil {
				return domain.ErrNotFound
			}
		}
		if err := tx.Analysis.Create(ctx, a); err != nil {
			return err
		}
		if err := tx.Audit.Append(ctx, audit.Created(entity.KindAnalysis.Table(), a.ID, "análisis de la muestra "+sample.Label, actorID, now)); err != nil {
			return err
		}
		rec, err = uc.engine.Record(ctx, tx, entity.KindAnalysis, a.ID, a.StateID, actorID, "", now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.engine.Created(ctx, rec)
	return a, nil
}

// GetByID obtiene un análisis; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Analysis, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// ChangeState cambia el estado del análisis.
func (uc *UseCase) ChangeState(ctx context.Context, analysisID, newStateID, actorID string) (*entity.Analysis, error) {
	if _, err := uc.engine.ChangeState(ctx, entity.KindAnalysis, analysisID, newStateID, actorID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, analysisID)
}

// History histórico de estados del análisis.
func (uc *UseCase) History(ctx context.Context, analysisID string) ([]*entity.HistoryRecord, error) {
	return uc.engine.History(ctx, entity.KindAnalysis, analysisID)
}

// StartIncubation registra la incubación del análisis en un equipo activo.
func (uc *UseCase) StartIncubation(ctx context.Context, in IncubationInput, actorID string) (*entity.Incubation, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.AnalysisID == "":
		return nil, domain.Invalid("analysis_id")
	case in.EquipmentID == "":
		return nil, domain.Invalid("equipment_id")
	}
	if in.In != nil && in.Out != nil && in.Out.Before(*in.In) {
		return nil, fmt.Errorf("%w: salida anterior a entrada", domain.ErrInvalidInput)
	}
	now := uc.engine.Now()
	inc := &entity.Incubation{
		ID:          uuid.New().String(),
		AnalysisID:  in.AnalysisID,
		EquipmentID: in.EquipmentID,
		In:          in.In,
		Out:         in.Out,
		Temperature: in.Temperature,
		TempUnit:    in.TempUnit,
	}
	if inc.In == nil {
		inc.In = &now
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		a, err := tx.Analysis.GetByID(ctx, in.AnalysisID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		eq, err := tx.Equipment.GetByID(ctx, in.EquipmentID)
		if err != nil {
			return err
		}
		if eq == nil {
			return domain.ErrNotFound
		}
		if !eq.Active {
			return fmt.Errorf("%w: equipo %s inactivo", domain.ErrConflict, eq.Code)
		}
		if err := tx.Analysis.CreateIncubation(ctx, inc); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("incubations", inc.ID, "incubación en "+eq.Code, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return inc, nil
}

// Evaluate calcula la conformidad de value contra la especificación del análisis.
// nil si el análisis no tiene especificación o el valor no es numérico.
func (uc *UseCase) Evaluate(ctx context.Context, analysisID, value string) (*bool, error) {
	a, err := uc.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	spec, err := uc.specFor(ctx, uc.specs, a)
	if err != nil {
		return nil, err
	}
	return conformance.Evaluate(spec, ParseNumeric(value)), nil
}

// RecordResult guarda el resultado con el flag de conformidad calculado al crearlo.
func (uc *UseCase) RecordResult(ctx context.Context, in ResultInput, actorID string) (*entity.AnalysisResult, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.AnalysisID == "":
		return nil, domain.Invalid("analysis_id")
	case strings.TrimSpace(in.Value) == "":
		return nil, domain.Invalid("value")
	}
	now := uc.engine.Now()
	r := &entity.AnalysisResult{
		ID:           uuid.New().String(),
		AnalysisID:   in.AnalysisID,
		ReportedAt:   now,
		OperatorID:   actorID,
		Value:        strings.TrimSpace(in.Value),
		NumericValue: ParseNumeric(in.Value),
		Unit:         in.Unit,
		Observation:  in.Observation,
	}
	var failedLimit string
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		a, err := tx.Analysis.GetByID(ctx, in.AnalysisID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		spec, err := uc.specFor(ctx, tx.Specifications, a)
		if err != nil {
			return err
		}
		r.Conforms = conformance.Evaluate(spec, r.NumericValue)
		failedLimit = conformance.Reason(spec, r.NumericValue)
		if err := tx.Analysis.CreateResult(ctx, r); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("analysis_results", r.ID, r.Value+" "+r.Unit, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.ResultEvaluated(r.Conforms)
	ev := uc.log.Info().Str("analysis_id", r.AnalysisID).Str("result_id", r.ID).Str("actor_id", actorID)
	if r.Conforms != nil {
		ev = ev.Bool("conforms", *r.Conforms)
	}
	if failedLimit != "" {
		ev = ev.Str("failed_limit", failedLimit)
	}
	ev.Msg("resultado registrado")
	return r, nil
}

// Results resultados reportados del análisis.
func (uc *UseCase) Results(ctx context.Context, analysisID string) ([]*entity.AnalysisResult, error) {
	if _, err := uc.GetByID(ctx, analysisID); err != nil {
		return nil, err
	}
	return uc.repo.ListResults(ctx, analysisID)
}

// UseMediaBatch vincula un lote de medio preparado al análisis. Solo lotes aprobados por QC.
func (uc *UseCase) UseMediaBatch(ctx context.Context, analysisID, batchID, actorID string) (*entity.MediaUsage, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case analysisID == "":
		return nil, domain.Invalid("analysis_id")
	case batchID == "":
		return nil, domain.Invalid("batch_id")
	}
	now := uc.engine.Now()
	u := &entity.MediaUsage{ID: uuid.New().String(), AnalysisID: analysisID, BatchID: batchID}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		a, err := tx.Analysis.GetByID(ctx, analysisID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		b, err := tx.Media.GetBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		approved, err := tx.Catalog.GetByName(ctx, entity.KindQC, entity.QCStateApproved)
		if err != nil {
			return err
		}
		if approved == nil || b.QCStateID != approved.ID {
			return fmt.Errorf("%w: el lote %s no está aprobado por QC", domain.ErrConflict, b.InternalLot)
		}
		if !b.Expires.IsZero() && b.Expires.Before(now) {
			return fmt.Errorf("%w: el lote %s está vencido", domain.ErrConflict, b.InternalLot)
		}
		if err := tx.Analysis.CreateMediaUsage(ctx, u); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("media_usages", u.ID, "lote "+b.InternalLot+" en análisis "+a.ID, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UseCase) specFor(ctx context.Context, specs repository.SpecificationRepository, a *entity.Analysis) (*entity.Specification, error) {
	if a.SpecificationID == nil {
		return nil, nil
	}
	spec, err := specs.GetByID(ctx, *a.SpecificationID)
	if err != nil {
		return nil, err
	}
	if spec == nil || !spec.Active {
		return nil, nil
	}
	return spec, nil
}

// ParseNumeric interpreta value como decimal; nil si no es numérico.
// Acepta coma decimal ("7,5").
func ParseNumeric(value string) *decimal.Decimal {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		return nil
	}
	return &d
}
