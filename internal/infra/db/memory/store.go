// Package memory holds map-backed repositories used by tests and the
// "memory" database driver.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
)

type entry[T any] struct {
	seq int
	val T
}

// ordered sorts entries by created time and insertion sequence.
func ordered[T any](es []entry[T], created func(T) int64, order analysis.Order) []entry[T] {
	out := slices.Clone(es)
	slices.SortStableFunc(out, func(a, b entry[T]) int {
		ca, cb := created(a.val), created(b.val)
		c := 0
		switch {
		case ca < cb:
			c = -1
		case ca > cb:
			c = 1
		case a.seq < b.seq:
			c = -1
		case a.seq > b.seq:
			c = 1
		}
		if order == analysis.NewestFirst {
			c = -c
		}
		return c
	})
	return out
}

// AnalysisRepository implements analysis.Repository.
type AnalysisRepository struct {
	mu   sync.RWMutex
	seq  int
	byID map[analysis.AnalysisID]entry[*analysis.AudioAnalysis]
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{byID: map[analysis.AnalysisID]entry[*analysis.AudioAnalysis]{}}
}

func copyAnalysis(a *analysis.AudioAnalysis) *analysis.AudioAnalysis {
	c := *a
	c.Anomalies = slices.Clone(a.Anomalies)
	return &c
}

func (r *AnalysisRepository) Insert(_ context.Context, a *analysis.AudioAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return analysis.ErrAlreadyExists
	}
	r.seq++
	r.byID[a.ID] = entry[*analysis.AudioAnalysis]{seq: r.seq, val: copyAnalysis(a)}
	return nil
}

func (r *AnalysisRepository) FindByID(_ context.Context, id analysis.AnalysisID) (*analysis.AudioAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, analysis.ErrNotFound
	}
	return copyAnalysis(e.val), nil
}

func (r *AnalysisRepository) FindByVehicle(_ context.Context, vehicleID string, q analysis.ListQuery) ([]*analysis.AudioAnalysis, error) {
	q = q.Normalize()
	r.mu.RLock()
	var es []entry[*analysis.AudioAnalysis]
	for _, e := range r.byID {
		if e.val.VehicleID == vehicleID {
			es = append(es, e)
		}
	}
	r.mu.RUnlock()

	es = ordered(es, func(a *analysis.AudioAnalysis) int64 { return a.CreatedAt.UnixNano() }, q.Order)
	out := []*analysis.AudioAnalysis{}
	for i := q.Offset; i < len(es) && len(out) < q.Limit; i++ {
		out = append(out, copyAnalysis(es[i].val))
	}
	return out, nil
}

// ReportRepository implements reports.Repository.
type ReportRepository struct {
	mu   sync.RWMutex
	seq  int
	byID map[reports.ReportID]entry[*reports.MechanicReport]
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{byID: map[reports.ReportID]entry[*reports.MechanicReport]{}}
}

func copyReport(r *reports.MechanicReport) *reports.MechanicReport {
	c := *r
	c.RecommendedActions = slices.Clone(r.RecommendedActions)
	return &c
}

func (r *ReportRepository) Insert(_ context.Context, rep *reports.MechanicReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rep.ID]; ok {
		return reports.ErrAlreadyExists
	}
	r.seq++
	r.byID[rep.ID] = entry[*reports.MechanicReport]{seq: r.seq, val: copyReport(rep)}
	return nil
}

func (r *ReportRepository) FindByID(_ context.Context, id reports.ReportID) (*reports.MechanicReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, reports.ErrNotFound
	}
	return copyReport(e.val), nil
}

func (r *ReportRepository) FindByAnalysis(_ context.Context, analysisID analysis.AnalysisID, order analysis.Order) ([]*reports.MechanicReport, error) {
	r.mu.RLock()
	var es []entry[*reports.MechanicReport]
	for _, e := range r.byID {
		if e.val.AnalysisID == analysisID {
			es = append(es, e)
		}
	}
	r.mu.RUnlock()

	es = ordered(es, func(m *reports.MechanicReport) int64 { return m.CreatedAt.UnixNano() }, order)
	out := make([]*reports.MechanicReport, 0, len(es))
	for _, e := range es {
		out = append(out, copyReport(e.val))
	}
	return out, nil
}

// VehicleRepository implements vehicles.Repository.
type VehicleRepository struct {
	mu   sync.RWMutex
	seq  int
	byID map[vehicles.VehicleID]entry[vehicles.Vehicle]
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{byID: map[vehicles.VehicleID]entry[vehicles.Vehicle]{}}
}

func (r *VehicleRepository) Insert(_ context.Context, v *vehicles.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.byID[v.ID] = entry[vehicles.Vehicle]{seq: r.seq, val: *v}
	return nil
}

func (r *VehicleRepository) Get(_ context.Context, owner string, id vehicles.VehicleID) (*vehicles.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok || e.val.OwnerID != owner {
		return nil, vehicles.ErrNotFound
	}
	v := e.val
	return &v, nil
}

func (r *VehicleRepository) ListByOwner(_ context.Context, owner string) ([]*vehicles.Vehicle, error) {
	r.mu.RLock()
	var es []entry[vehicles.Vehicle]
	for _, e := range r.byID {
		if e.val.OwnerID == owner {
			es = append(es, e)
		}
	}
	r.mu.RUnlock()

	es = ordered(es, func(v vehicles.Vehicle) int64 { return v.CreatedAt.UnixNano() }, analysis.NewestFirst)
	out := make([]*vehicles.Vehicle, 0, len(es))
	for _, e := range es {
		v := e.val
		out = append(out, &v)
	}
	return out, nil
}
