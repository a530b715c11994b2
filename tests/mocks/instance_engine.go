package mocks

import (
	"context"
	"fmt"
	"sync"

	instanceDomain "github.com/davicafu/flowquery/internal/instance/domain"
)

// InstanceEngineMock simula el motor de consultas de instancias; mismo patrón
// de registro de llamadas que IncidentEngineMock.
type InstanceEngineMock struct {
	Instances []*instanceDomain.ProcessInstance
	Total     int64
	Err       error

	Created   int
	LastQuery *InstanceQueryMock
	mu        sync.Mutex
}

var _ instanceDomain.InstanceEngine = (*InstanceEngineMock)(nil)

func NewInstanceEngineMock(instances ...*instanceDomain.ProcessInstance) *InstanceEngineMock {
	return &InstanceEngineMock{
		Instances: instances,
		Total:     int64(len(instances)),
	}
}

func (m *InstanceEngineMock) CreateInstanceQuery() instanceDomain.InstanceQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created++
	q := &InstanceQueryMock{engine: m}
	m.LastQuery = q
	return q
}

type InstanceQueryMock struct {
	engine *InstanceEngineMock

	Filters []string
	Orders  []OrderCall

	ListCalls     int
	ListPageCalls [][2]int
	CountCalls    int
}

func (q *InstanceQueryMock) filter(format string, args ...interface{}) {
	q.Filters = append(q.Filters, fmt.Sprintf(format, args...))
}

func (q *InstanceQueryMock) BusinessKey(key string)          { q.filter("businessKey=%s", key) }
func (q *InstanceQueryMock) ProcessDefinitionID(id string)   { q.filter("processDefinitionId=%s", id) }
func (q *InstanceQueryMock) ProcessDefinitionKey(key string) { q.filter("processDefinitionKey=%s", key) }
func (q *InstanceQueryMock) SuperProcessInstance(id string)  { q.filter("superProcessInstance=%s", id) }
func (q *InstanceQueryMock) SubProcessInstance(id string)    { q.filter("subProcessInstance=%s", id) }
func (q *InstanceQueryMock) Active()                         { q.filter("active") }
func (q *InstanceQueryMock) Suspended()                      { q.filter("suspended") }
func (q *InstanceQueryMock) TenantIDIn(ids []string)         { q.filter("tenantIdIn=%v", ids) }

func (q *InstanceQueryMock) OrderBy(field instanceDomain.InstanceSortField) {
	q.Orders = append(q.Orders, OrderCall{Field: string(field)})
}

func (q *InstanceQueryMock) Asc() {
	if len(q.Orders) > 0 {
		q.Orders[len(q.Orders)-1].Desc = false
	}
}

func (q *InstanceQueryMock) Desc() {
	if len(q.Orders) > 0 {
		q.Orders[len(q.Orders)-1].Desc = true
	}
}

func (q *InstanceQueryMock) List(ctx context.Context) ([]*instanceDomain.ProcessInstance, error) {
	q.ListCalls++
	if q.engine.Err != nil {
		return nil, q.engine.Err
	}
	return q.engine.Instances, nil
}

func (q *InstanceQueryMock) ListPage(ctx context.Context, first, max int) ([]*instanceDomain.ProcessInstance, error) {
	q.ListPageCalls = append(q.ListPageCalls, [2]int{first, max})
	if q.engine.Err != nil {
		return nil, q.engine.Err
	}
	if first >= len(q.engine.Instances) {
		return nil, nil
	}
	end := first + max
	if end > len(q.engine.Instances) || end < 0 {
		end = len(q.engine.Instances)
	}
	return q.engine.Instances[first:end], nil
}

func (q *InstanceQueryMock) Count(ctx context.Context) (int64, error) {
	q.CountCalls++
	if q.engine.Err != nil {
		return 0, q.engine.Err
	}
	return q.engine.Total, nil
}

// InstanceStoreMock registra guardados y borrados.
type InstanceStoreMock struct {
	Saved   []*instanceDomain.ProcessInstance
	Deleted []string
	Err     error
	mu      sync.Mutex
}

var _ instanceDomain.InstanceStore = (*InstanceStoreMock)(nil)

func (s *InstanceStoreMock) Save(ctx context.Context, pi *instanceDomain.ProcessInstance) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved = append(s.Saved, pi)
	return nil
}

func (s *InstanceStoreMock) Delete(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, id)
	return nil
}
