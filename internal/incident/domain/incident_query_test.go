package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davicafu/flowquery/internal/incident/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
	"github.com/davicafu/flowquery/tests/mocks"
)

func TestBindHistoricIncidentQuery_TypedAssignment(t *testing.T) {
	q, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"incidentType": {"failedJob"},
		"resolved":     {"true"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "failedJob", *q.IncidentType)
	assert.True(t, *q.Resolved)
	assert.Nil(t, q.Open)
	assert.Nil(t, q.IncidentID)
}

func TestBindHistoricIncidentQuery_InvalidBooleanNamesParam(t *testing.T) {
	_, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"open": {"notabool"},
	})

	var convErr *sharedQuery.ConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.Equal(t, "open", convErr.Param)
	assert.Equal(t, "notabool", convErr.Value)
}

func TestBindHistoricIncidentQuery_TenantListAccumulates(t *testing.T) {
	// Dos apariciones del parámetro, una de ellas con lista separada por comas
	q, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"tenantIdIn": {"tenant-a, tenant-b", "tenant-c"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"tenant-a", "tenant-b", "tenant-c"}, q.TenantIDs)
}

func TestApplyFilters_OneCallPerAssignedField(t *testing.T) {
	q, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"incidentType": {"failedJob"},
		"resolved":     {"true"},
	})
	assert.NoError(t, err)

	engine := mocks.NewIncidentEngineMock()
	h := engine.CreateIncidentQuery()
	q.ApplyFilters(h)

	// Exactamente dos llamadas de filtro, nada más
	assert.Equal(t, []string{"incidentType=failedJob", "resolved"}, engine.LastQuery.Filters)
}

func TestApplyFilters_FalseMarkerEqualsUnset(t *testing.T) {
	q, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"resolved": {"false"},
	})
	assert.NoError(t, err)

	engine := mocks.NewIncidentEngineMock()
	h := engine.CreateIncidentQuery()
	q.ApplyFilters(h)

	assert.Empty(t, engine.LastQuery.Filters, "resolved=false no debe producir llamada")
}

func TestApplyFilters_EmptyStringIsStillAFilter(t *testing.T) {
	// Cadena vacía pedida explícitamente != parámetro ausente
	q, err := domain.BindHistoricIncidentQuery(sharedQuery.Params{
		"incidentMessage": {""},
	})
	assert.NoError(t, err)

	engine := mocks.NewIncidentEngineMock()
	h := engine.CreateIncidentQuery()
	q.ApplyFilters(h)

	assert.Equal(t, []string{"incidentMessage="}, engine.LastQuery.Filters)
}

func TestApplySort_DispatchesThroughWhitelist(t *testing.T) {
	q := &domain.HistoricIncidentQuery{}
	engine := mocks.NewIncidentEngineMock()
	h := engine.CreateIncidentQuery()

	q.ApplySort(h, sharedQuery.SortCriterion{Field: "createTime", Order: sharedQuery.SortAsc})
	q.ApplySort(h, sharedQuery.SortCriterion{Field: "tenantId", Order: sharedQuery.SortDesc})

	assert.Equal(t, []mocks.OrderCall{
		{Field: "createTime", Desc: false},
		{Field: "tenantId", Desc: true},
	}, engine.LastQuery.Orders)
}

func TestIsValidSortField_CoversWhitelist(t *testing.T) {
	q := &domain.HistoricIncidentQuery{}

	for _, field := range []string{
		"incidentId", "incidentMessage", "createTime", "endTime", "incidentType",
		"executionId", "activityId", "processInstanceId", "processDefinitionId",
		"causeIncidentId", "rootCauseIncidentId", "configuration", "tenantId",
		"incidentState",
	} {
		assert.True(t, q.IsValidSortField(field), "field=%q", field)
	}

	assert.False(t, q.IsValidSortField("createTimee"))
	assert.False(t, q.IsValidSortField(""))
}

func TestCountCacheKey_StableAcrossMapOrder(t *testing.T) {
	a := domain.CountCacheKey(sharedQuery.Params{
		"incidentType": {"failedJob"},
		"tenantIdIn":   {"a,b"},
	})
	b := domain.CountCacheKey(sharedQuery.Params{
		"tenantIdIn":   {"a,b"},
		"incidentType": {"failedJob"},
	})

	assert.Equal(t, a, b)
}

func TestCountCacheKey_DistinguishesQueries(t *testing.T) {
	a := domain.CountCacheKey(sharedQuery.Params{"incidentType": {"failedJob"}})
	b := domain.CountCacheKey(sharedQuery.Params{"incidentType": {"failedExternalTask"}})

	assert.NotEqual(t, a, b)
}
