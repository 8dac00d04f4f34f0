package dto

// DashboardStatsDTO indicadores del panel principal.
type DashboardStatsDTO struct {
	ActiveEquipment       int             `json:"active_equipment"`
	PendingAnalyses       int             `json:"pending_analyses"`
	SamplingRequestsToday int             `json:"sampling_requests_today"`
	AnalysesByState       []StateCountDTO `json:"analyses_by_state"`
	SamplingRequestsWeek  []DayCountDTO   `json:"sampling_requests_week"`
}

// StateCountDTO barra del gráfico de análisis por estado.
type StateCountDTO struct {
	StateID string `json:"state_id"`
	State   string `json:"state"`
	Count   int    `json:"count"`
}

// DayCountDTO punto de la serie diaria (fecha YYYY-MM-DD).
type DayCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
