package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el panel principal.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountActiveEquipment(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM equipment WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active equipment: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountAnalysesByState(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT state_id::text, COUNT(*) FROM analyses GROUP BY state_id`)
	if err != nil {
		return nil, fmt.Errorf("count analyses by state: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *DashboardRepo) CountSamplingRequestsByDay(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM sampling_requests
		WHERE date >= $1 AND date < $2
		GROUP BY day`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("count sampling requests by day: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		out[day] = n
	}
	return out, rows.Err()
}
