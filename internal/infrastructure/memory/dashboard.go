package memory

import (
	"context"
	"time"
)

type dashboardRepo struct{ base }

func (r *dashboardRepo) CountActiveEquipment(_ context.Context) (int, error) {
	defer r.lock()()
	n := 0
	for _, e := range r.t().equipment {
		if e.Active {
			n++
		}
	}
	return n, nil
}

func (r *dashboardRepo) CountAnalysesByState(_ context.Context) (map[string]int, error) {
	defer r.lock()()
	out := make(map[string]int)
	for _, a := range r.t().analyses {
		out[a.StateID]++
	}
	return out, nil
}

func (r *dashboardRepo) CountSamplingRequestsByDay(_ context.Context, from, to time.Time) (map[string]int, error) {
	defer r.lock()()
	out := make(map[string]int)
	for _, s := range r.t().requests {
		if s.Date.Before(from) || !s.Date.Before(to) {
			continue
		}
		out[s.Date.UTC().Format(time.DateOnly)]++
	}
	return out, nil
}
