package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var (
	_ repository.AnalysisRepository      = (*AnalysisRepo)(nil)
	_ repository.SpecificationRepository = (*SpecificationRepo)(nil)
)

// AnalysisRepo análisis, incubaciones, resultados y uso de medios sobre PostgreSQL.
type AnalysisRepo struct {
	q Querier
}

// NewAnalysisRepository construye el adaptador.
func NewAnalysisRepository(q Querier) *AnalysisRepo {
	return &AnalysisRepo{q: q}
}

// Create persiste un análisis.
func (r *AnalysisRepo) Create(ctx context.Context, a *entity.Analysis) error {
	query := `
		INSERT INTO analyses (id, sample_id, reception_id, method_version_id, specification_id, state_id,
			started_at, last_change, operator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, a.ID, a.SampleID, a.ReceptionID, a.MethodVersionID, a.SpecificationID, a.StateID,
		a.StartedAt, a.LastChange, a.OperatorID)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID obtiene un análisis; (nil, nil) si no existe.
func (r *AnalysisRepo) GetByID(ctx context.Context, id string) (*entity.Analysis, error) {
	query := `
		SELECT id, sample_id, reception_id, method_version_id, specification_id, state_id, started_at, last_change, operator_id
		FROM analyses WHERE id = $1`
	var a entity.Analysis
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.SampleID, &a.ReceptionID, &a.MethodVersionID, &a.SpecificationID,
		&a.StateID, &a.StartedAt, &a.LastChange, &a.OperatorID)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return &a, nil
}

// CreateIncubation persiste una incubación.
func (r *AnalysisRepo) CreateIncubation(ctx context.Context, i *entity.Incubation) error {
	query := `
		INSERT INTO incubations (id, analysis_id, equipment_id, time_in, time_out, temperature, temp_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, i.ID, i.AnalysisID, i.EquipmentID, i.In, i.Out, i.Temperature, i.TempUnit); err != nil {
		return fmt.Errorf("insert incubation: %w", err)
	}
	return nil
}

// CreateResult persiste un resultado con su flag de conformidad ya calculado.
func (r *AnalysisRepo) CreateResult(ctx context.Context, res *entity.AnalysisResult) error {
	query := `
		INSERT INTO analysis_results (id, analysis_id, reported_at, operator_id, value, numeric_value, unit, conforms, observation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, res.ID, res.AnalysisID, res.ReportedAt, res.OperatorID, res.Value, res.NumericValue,
		res.Unit, res.Conforms, res.Observation)
	if err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}
	return nil
}

// ListResults resultados del análisis en orden de reporte.
func (r *AnalysisRepo) ListResults(ctx context.Context, analysisID string) ([]*entity.AnalysisResult, error) {
	query := `
		SELECT id, analysis_id, reported_at, operator_id, value, numeric_value, unit, conforms, observation
		FROM analysis_results WHERE analysis_id = $1 ORDER BY reported_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("list analysis results: %w", err)
	}
	defer rows.Close()
	var list []*entity.AnalysisResult
	for rows.Next() {
		var res entity.AnalysisResult
		if err := rows.Scan(&res.ID, &res.AnalysisID, &res.ReportedAt, &res.OperatorID, &res.Value, &res.NumericValue,
			&res.Unit, &res.Conforms, &res.Observation); err != nil {
			return nil, fmt.Errorf("scan analysis result: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// CreateMediaUsage vincula un lote de medio preparado a un análisis.
func (r *AnalysisRepo) CreateMediaUsage(ctx context.Context, u *entity.MediaUsage) error {
	query := `INSERT INTO media_usages (id, analysis_id, batch_id) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, u.ID, u.AnalysisID, u.BatchID); err != nil {
		return fmt.Errorf("insert media usage: %w", err)
	}
	return nil
}

// SpecificationRepo lectura de especificaciones.
type SpecificationRepo struct {
	q Querier
}

// NewSpecificationRepository construye el adaptador.
func NewSpecificationRepository(q Querier) *SpecificationRepo {
	return &SpecificationRepo{q: q}
}

// GetByID obtiene una especificación; (nil, nil) si no existe.
func (r *SpecificationRepo) GetByID(ctx context.Context, id string) (*entity.Specification, error) {
	query := `
		SELECT id, product_id, parameter, limit_type, min_value, max_value, unit, active
		FROM specifications WHERE id = $1`
	var s entity.Specification
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.ProductID, &s.Parameter, &s.LimitType, &s.Min, &s.Max, &s.Unit, &s.Active)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get specification: %w", err)
	}
	return &s, nil
}
