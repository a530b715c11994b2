package application

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/davicafu/flowquery/internal/incident/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
	"github.com/davicafu/flowquery/tests/mocks"
)

func intPtr(n int) *int { return &n }

func newIncident(incidentType string) *domain.HistoricIncident {
	return &domain.HistoricIncident{
		ID:           uuid.New(),
		IncidentType: incidentType,
		CreateTime:   time.Now().UTC(),
		State:        domain.StateOpen,
	}
}

func TestSearch_UnboundedWhenNoPagination(t *testing.T) {
	engine := mocks.NewIncidentEngineMock(newIncident("failedJob"), newIncident("failedJob"))
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	results, err := service.Search(context.Background(), sharedQuery.Params{}, sharedQuery.Page{})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 1, engine.LastQuery.ListCalls)
	assert.Empty(t, engine.LastQuery.ListPageCalls)
}

func TestSearch_PagedWithBothLimits(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{},
		sharedQuery.Page{First: intPtr(10), Max: intPtr(20)})

	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{10, 20}}, engine.LastQuery.ListPageCalls)
}

func TestSearch_FirstResultAloneMeansNoUpperBound(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{},
		sharedQuery.Page{First: intPtr(10)})

	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{10, math.MaxInt32}}, engine.LastQuery.ListPageCalls)
}

func TestSearch_MaxResultsAloneStartsAtZero(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{},
		sharedQuery.Page{Max: intPtr(20)})

	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 20}}, engine.LastQuery.ListPageCalls)
}

func TestSearch_FiltersAndSortReachTheHandle(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{
		"incidentType": {"failedJob"},
		"resolved":     {"true"},
		"sortBy":       {"createTime"},
		"sortOrder":    {"asc"},
	}, sharedQuery.Page{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"incidentType=failedJob", "resolved"}, engine.LastQuery.Filters)
	assert.Equal(t, []mocks.OrderCall{{Field: "createTime", Desc: false}}, engine.LastQuery.Orders)
}

func TestSearch_InvalidSortFieldNeverCreatesHandle(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{
		"sortBy": {"bogus"},
	}, sharedQuery.Page{})

	var sortErr *sharedQuery.SortError
	assert.ErrorAs(t, err, &sortErr)
	assert.Equal(t, 0, engine.Created)
}

func TestSearch_ConversionErrorNeverCreatesHandle(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{
		"open": {"notabool"},
	}, sharedQuery.Page{})

	var convErr *sharedQuery.ConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.Equal(t, 0, engine.Created)
}

func TestSearch_EngineFailureIsWrapped(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	engine.Err = errors.New("deadlock detected")
	service := NewIncidentService(engine, nil, nil, zap.NewNop())

	_, err := service.Search(context.Background(), sharedQuery.Params{}, sharedQuery.Page{})

	var engineErr *sharedQuery.EngineError
	assert.ErrorAs(t, err, &engineErr)
}

func TestCount_MissGoesToEngineAndPopulatesCache(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	engine.Total = 42
	cache := mocks.NewDummyCache()
	service := NewIncidentService(engine, nil, cache, zap.NewNop())

	n, err := service.Count(context.Background(), sharedQuery.Params{"incidentType": {"failedJob"}})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, 1, engine.LastQuery.CountCalls)

	// El set de caché es asíncrono
	assert.Eventually(t, func() bool { return cache.Sets == 1 }, time.Second, 10*time.Millisecond)
}

func TestCount_HitSkipsTheEngine(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	cache := mocks.NewDummyCache()
	params := sharedQuery.Params{"incidentType": {"failedJob"}}
	cache.Seed(domain.CountCacheKey(params), int64(7))

	service := NewIncidentService(engine, nil, cache, zap.NewNop())

	n, err := service.Count(context.Background(), params)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, 0, engine.Created)
}

func TestCount_InvalidSortFieldNeverCreatesHandle(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	cache := mocks.NewDummyCache()
	cache.Seed(domain.CountCacheKey(sharedQuery.Params{"sortBy": {"bogusField"}}), int64(99))
	service := NewIncidentService(engine, nil, cache, zap.NewNop())

	_, err := service.Count(context.Background(), sharedQuery.Params{"sortBy": {"bogusField"}})

	var sortErr *sharedQuery.SortError
	assert.ErrorAs(t, err, &sortErr)
	assert.Equal(t, 0, engine.Created)
	// Ni siquiera un valor ya cacheado se devuelve para una petición inválida
	assert.Equal(t, 0, cache.Gets)
}

func TestCount_ConversionErrorBeforeCacheOrEngine(t *testing.T) {
	engine := mocks.NewIncidentEngineMock()
	cache := mocks.NewDummyCache()
	service := NewIncidentService(engine, nil, cache, zap.NewNop())

	_, err := service.Count(context.Background(), sharedQuery.Params{"deleted": {"si"}})

	var convErr *sharedQuery.ConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.Equal(t, 0, engine.Created)
	assert.Equal(t, 0, cache.Gets)
}

func TestIngest_PersistsAndDefaults(t *testing.T) {
	store := &mocks.IncidentStoreMock{}
	service := NewIncidentService(mocks.NewIncidentEngineMock(), store, nil, zap.NewNop())

	in := &domain.HistoricIncident{ID: uuid.New(), IncidentType: "failedJob"}
	err := service.Ingest(context.Background(), in)

	assert.NoError(t, err)
	assert.Len(t, store.Saved, 1)
	assert.False(t, store.Saved[0].CreateTime.IsZero())
	assert.Equal(t, domain.StateOpen, store.Saved[0].State)
}

func TestIngest_RejectsInvalidSnapshot(t *testing.T) {
	store := &mocks.IncidentStoreMock{}
	service := NewIncidentService(mocks.NewIncidentEngineMock(), store, nil, zap.NewNop())

	err := service.Ingest(context.Background(), &domain.HistoricIncident{ID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrInvalidIncident)
	assert.Empty(t, store.Saved)
}
