package mocks

import (
	"context"
	"fmt"
	"sync"

	incidentDomain "github.com/davicafu/flowquery/internal/incident/domain"
)

// IncidentEngineMock simula el motor de consultas de incidencias. Cada handle
// creado registra las llamadas de filtro, ordenación y ejecución que recibe,
// para poder afirmar sobre la traducción parámetro → llamada.
type IncidentEngineMock struct {
	Incidents []*incidentDomain.HistoricIncident // resultado de List/ListPage
	Total     int64                              // resultado de Count
	Err       error                              // si no es nil, toda terminal falla

	Created   int // número de handles creados
	LastQuery *IncidentQueryMock
	mu        sync.Mutex
}

var _ incidentDomain.IncidentEngine = (*IncidentEngineMock)(nil)

func NewIncidentEngineMock(incidents ...*incidentDomain.HistoricIncident) *IncidentEngineMock {
	return &IncidentEngineMock{
		Incidents: incidents,
		Total:     int64(len(incidents)),
	}
}

func (m *IncidentEngineMock) CreateIncidentQuery() incidentDomain.IncidentQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created++
	q := &IncidentQueryMock{engine: m}
	m.LastQuery = q
	return q
}

// OrderCall registra una columna de ordenación y su dirección final.
type OrderCall struct {
	Field string
	Desc  bool
}

// IncidentQueryMock registra cada llamada recibida por el handle.
type IncidentQueryMock struct {
	engine *IncidentEngineMock

	Filters []string    // una entrada por llamada de filtro, en orden
	Orders  []OrderCall // una entrada por OrderBy

	ListCalls     int
	ListPageCalls [][2]int // pares (first, max)
	CountCalls    int
}

func (q *IncidentQueryMock) filter(format string, args ...interface{}) {
	q.Filters = append(q.Filters, fmt.Sprintf(format, args...))
}

func (q *IncidentQueryMock) IncidentID(id string)          { q.filter("incidentId=%s", id) }
func (q *IncidentQueryMock) IncidentType(t string)         { q.filter("incidentType=%s", t) }
func (q *IncidentQueryMock) IncidentMessage(msg string)    { q.filter("incidentMessage=%s", msg) }
func (q *IncidentQueryMock) ProcessDefinitionID(id string) { q.filter("processDefinitionId=%s", id) }
func (q *IncidentQueryMock) ProcessInstanceID(id string)   { q.filter("processInstanceId=%s", id) }
func (q *IncidentQueryMock) ExecutionID(id string)         { q.filter("executionId=%s", id) }
func (q *IncidentQueryMock) ActivityID(id string)          { q.filter("activityId=%s", id) }
func (q *IncidentQueryMock) CauseIncidentID(id string)     { q.filter("causeIncidentId=%s", id) }
func (q *IncidentQueryMock) RootCauseIncidentID(id string) { q.filter("rootCauseIncidentId=%s", id) }
func (q *IncidentQueryMock) Configuration(c string)        { q.filter("configuration=%s", c) }
func (q *IncidentQueryMock) Open()                         { q.filter("open") }
func (q *IncidentQueryMock) Resolved()                     { q.filter("resolved") }
func (q *IncidentQueryMock) Deleted()                      { q.filter("deleted") }
func (q *IncidentQueryMock) TenantIDIn(ids []string)       { q.filter("tenantIdIn=%v", ids) }
func (q *IncidentQueryMock) JobDefinitionIDIn(ids []string) {
	q.filter("jobDefinitionIdIn=%v", ids)
}

func (q *IncidentQueryMock) OrderBy(field incidentDomain.IncidentSortField) {
	q.Orders = append(q.Orders, OrderCall{Field: string(field)})
}

func (q *IncidentQueryMock) Asc() {
	if len(q.Orders) > 0 {
		q.Orders[len(q.Orders)-1].Desc = false
	}
}

func (q *IncidentQueryMock) Desc() {
	if len(q.Orders) > 0 {
		q.Orders[len(q.Orders)-1].Desc = true
	}
}

func (q *IncidentQueryMock) List(ctx context.Context) ([]*incidentDomain.HistoricIncident, error) {
	q.ListCalls++
	if q.engine.Err != nil {
		return nil, q.engine.Err
	}
	return q.engine.Incidents, nil
}

func (q *IncidentQueryMock) ListPage(ctx context.Context, first, max int) ([]*incidentDomain.HistoricIncident, error) {
	q.ListPageCalls = append(q.ListPageCalls, [2]int{first, max})
	if q.engine.Err != nil {
		return nil, q.engine.Err
	}
	if first >= len(q.engine.Incidents) {
		return nil, nil
	}
	end := first + max
	if end > len(q.engine.Incidents) || end < 0 { // end < 0 si max desborda
		end = len(q.engine.Incidents)
	}
	return q.engine.Incidents[first:end], nil
}

func (q *IncidentQueryMock) Count(ctx context.Context) (int64, error) {
	q.CountCalls++
	if q.engine.Err != nil {
		return 0, q.engine.Err
	}
	return q.engine.Total, nil
}

// IncidentStoreMock registra las fotos guardadas.
type IncidentStoreMock struct {
	Saved []*incidentDomain.HistoricIncident
	Err   error
	mu    sync.Mutex
}

var _ incidentDomain.IncidentStore = (*IncidentStoreMock)(nil)

func (s *IncidentStoreMock) Save(ctx context.Context, in *incidentDomain.HistoricIncident) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved = append(s.Saved, in)
	return nil
}
