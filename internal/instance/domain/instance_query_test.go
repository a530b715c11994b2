package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davicafu/flowquery/internal/instance/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
	"github.com/davicafu/flowquery/tests/mocks"
)

func TestBindProcessInstanceQuery_TypedAssignment(t *testing.T) {
	q, err := domain.BindProcessInstanceQuery(sharedQuery.Params{
		"businessKey":          {"order-42"},
		"processDefinitionKey": {"invoice"},
		"active":               {"true"},
		"tenantIdIn":           {"t1,t2"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "order-42", *q.BusinessKey)
	assert.Equal(t, "invoice", *q.ProcessDefinitionKey)
	assert.True(t, *q.Active)
	assert.Equal(t, []string{"t1", "t2"}, q.TenantIDs)
	assert.Nil(t, q.Suspended)
}

func TestBindProcessInstanceQuery_InvalidBoolean(t *testing.T) {
	_, err := domain.BindProcessInstanceQuery(sharedQuery.Params{
		"suspended": {"TRUE"},
	})

	var convErr *sharedQuery.ConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.Equal(t, "suspended", convErr.Param)
}

func TestInstanceApplyFilters_MarkersOnlyWhenTrue(t *testing.T) {
	q, err := domain.BindProcessInstanceQuery(sharedQuery.Params{
		"active":    {"false"},
		"suspended": {"true"},
	})
	assert.NoError(t, err)

	engine := mocks.NewInstanceEngineMock()
	h := engine.CreateInstanceQuery()
	q.ApplyFilters(h)

	assert.Equal(t, []string{"suspended"}, engine.LastQuery.Filters)
}

func TestInstanceApplySort_Dispatch(t *testing.T) {
	q := &domain.ProcessInstanceQuery{}
	engine := mocks.NewInstanceEngineMock()
	h := engine.CreateInstanceQuery()

	q.ApplySort(h, sharedQuery.SortCriterion{Field: "businessKey", Order: sharedQuery.SortDesc})

	assert.Equal(t, []mocks.OrderCall{{Field: "businessKey", Desc: true}}, engine.LastQuery.Orders)
}

func TestInstanceIsValidSortField(t *testing.T) {
	q := &domain.ProcessInstanceQuery{}

	for _, field := range []string{"instanceId", "definitionId", "definitionKey", "businessKey", "tenantId"} {
		assert.True(t, q.IsValidSortField(field), "field=%q", field)
	}
	assert.False(t, q.IsValidSortField("startTime"))
}
