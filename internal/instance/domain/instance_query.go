package domain

import (
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// ---------------- Holder de filtros ----------------

// ProcessInstanceQuery es el tipo de consulta sobre instancias en ejecución.
type ProcessInstanceQuery struct {
	BusinessKey            *string
	ProcessDefinitionID    *string
	ProcessDefinitionKey   *string
	SuperProcessInstanceID *string
	SubProcessInstanceID   *string
	Active                 *bool
	Suspended              *bool
	TenantIDs              []string
}

func ptr[T any](v T) *T { return &v }

// ---------------- Tabla de descriptores ----------------

var processInstanceParams = []sharedQuery.Descriptor[ProcessInstanceQuery]{
	{Param: "businessKey", Assign: func(q *ProcessInstanceQuery, v interface{}) { q.BusinessKey = ptr(v.(string)) }},
	{Param: "processDefinitionId", Assign: func(q *ProcessInstanceQuery, v interface{}) { q.ProcessDefinitionID = ptr(v.(string)) }},
	{Param: "processDefinitionKey", Assign: func(q *ProcessInstanceQuery, v interface{}) { q.ProcessDefinitionKey = ptr(v.(string)) }},
	{Param: "superProcessInstance", Assign: func(q *ProcessInstanceQuery, v interface{}) { q.SuperProcessInstanceID = ptr(v.(string)) }},
	{Param: "subProcessInstance", Assign: func(q *ProcessInstanceQuery, v interface{}) { q.SubProcessInstanceID = ptr(v.(string)) }},
	{Param: "active", Convert: sharedQuery.Boolean, Assign: func(q *ProcessInstanceQuery, v interface{}) { q.Active = ptr(v.(bool)) }},
	{Param: "suspended", Convert: sharedQuery.Boolean, Assign: func(q *ProcessInstanceQuery, v interface{}) { q.Suspended = ptr(v.(bool)) }},
	{Param: "tenantIdIn", Convert: sharedQuery.StringList, Multi: true,
		Assign: func(q *ProcessInstanceQuery, v interface{}) { q.TenantIDs = append(q.TenantIDs, v.([]string)...) }},
}

// ---------------- Whitelist de ordenación ----------------

var processInstanceSortFields = map[string]InstanceSortField{
	"instanceId":    SortInstanceID,
	"definitionId":  SortDefinitionID,
	"definitionKey": SortDefinitionKey,
	"businessKey":   SortBusinessKey,
	"tenantId":      SortTenantID,
}

// ---------------- Binding ----------------

func BindProcessInstanceQuery(params sharedQuery.Params) (*ProcessInstanceQuery, error) {
	var q ProcessInstanceQuery
	if err := sharedQuery.Bind(processInstanceParams, params, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ---------------- Contrato de consulta ----------------

func (q *ProcessInstanceQuery) QueryType() string { return "process instance" }

func (q *ProcessInstanceQuery) IsValidSortField(field string) bool {
	_, ok := processInstanceSortFields[field]
	return ok
}

// ApplyFilters: mismos contratos que en incidentes; active=false y
// suspended=false equivalen a no enviar el parámetro.
func (q *ProcessInstanceQuery) ApplyFilters(h InstanceQuery) {
	if q.BusinessKey != nil {
		h.BusinessKey(*q.BusinessKey)
	}
	if q.ProcessDefinitionID != nil {
		h.ProcessDefinitionID(*q.ProcessDefinitionID)
	}
	if q.ProcessDefinitionKey != nil {
		h.ProcessDefinitionKey(*q.ProcessDefinitionKey)
	}
	if q.SuperProcessInstanceID != nil {
		h.SuperProcessInstance(*q.SuperProcessInstanceID)
	}
	if q.SubProcessInstanceID != nil {
		h.SubProcessInstance(*q.SubProcessInstanceID)
	}
	if q.Active != nil && *q.Active {
		h.Active()
	}
	if q.Suspended != nil && *q.Suspended {
		h.Suspended()
	}
	if len(q.TenantIDs) > 0 {
		h.TenantIDIn(q.TenantIDs)
	}
}

func (q *ProcessInstanceQuery) ApplySort(h InstanceQuery, c sharedQuery.SortCriterion) {
	field, ok := processInstanceSortFields[c.Field]
	if !ok {
		return
	}
	h.OrderBy(field)
	if c.Order == sharedQuery.SortDesc {
		h.Desc()
	} else {
		h.Asc()
	}
}
