package repository

import (
	"context"
	"time"
)

// DashboardRepository consultas de solo lectura para el panel principal.
type DashboardRepository interface {
	CountActiveEquipment(ctx context.Context) (int, error)
	// CountAnalysesByState conteo de análisis por estado_id.
	CountAnalysesByState(ctx context.Context) (map[string]int, error)
	// CountSamplingRequestsByDay solicitudes con fecha en [from, to) agrupadas por día UTC ("2006-01-02").
	CountSamplingRequestsByDay(ctx context.Context, from, to time.Time) (map[string]int, error)
}
