package domain

import (
	"sort"
	"strings"

	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// ---------------- Holder de filtros ----------------

// HistoricIncidentQuery es el tipo de consulta sobre incidentes históricos.
// Los campos puntero distinguen "no pedido" (nil) de "pedido vacío"; el
// binder genérico los puebla a partir de la tabla de descriptores.
type HistoricIncidentQuery struct {
	IncidentID          *string
	IncidentType        *string
	IncidentMessage     *string
	ProcessDefinitionID *string
	ProcessInstanceID   *string
	ExecutionID         *string
	ActivityID          *string
	CauseIncidentID     *string
	RootCauseIncidentID *string
	Configuration       *string
	Open                *bool
	Resolved            *bool
	Deleted             *bool
	TenantIDs           []string
	JobDefinitionIDs    []string
}

func ptr[T any](v T) *T { return &v }

// ---------------- Tabla de descriptores ----------------

// Se construye una sola vez; el binder la itera por petición.
var historicIncidentParams = []sharedQuery.Descriptor[HistoricIncidentQuery]{
	{Param: "incidentId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.IncidentID = ptr(v.(string)) }},
	{Param: "incidentType", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.IncidentType = ptr(v.(string)) }},
	{Param: "incidentMessage", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.IncidentMessage = ptr(v.(string)) }},
	{Param: "processDefinitionId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.ProcessDefinitionID = ptr(v.(string)) }},
	{Param: "processInstanceId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.ProcessInstanceID = ptr(v.(string)) }},
	{Param: "executionId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.ExecutionID = ptr(v.(string)) }},
	{Param: "activityId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.ActivityID = ptr(v.(string)) }},
	{Param: "causeIncidentId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.CauseIncidentID = ptr(v.(string)) }},
	{Param: "rootCauseIncidentId", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.RootCauseIncidentID = ptr(v.(string)) }},
	{Param: "configuration", Assign: func(q *HistoricIncidentQuery, v interface{}) { q.Configuration = ptr(v.(string)) }},
	{Param: "open", Convert: sharedQuery.Boolean, Assign: func(q *HistoricIncidentQuery, v interface{}) { q.Open = ptr(v.(bool)) }},
	{Param: "resolved", Convert: sharedQuery.Boolean, Assign: func(q *HistoricIncidentQuery, v interface{}) { q.Resolved = ptr(v.(bool)) }},
	{Param: "deleted", Convert: sharedQuery.Boolean, Assign: func(q *HistoricIncidentQuery, v interface{}) { q.Deleted = ptr(v.(bool)) }},
	{Param: "tenantIdIn", Convert: sharedQuery.StringList, Multi: true,
		Assign: func(q *HistoricIncidentQuery, v interface{}) { q.TenantIDs = append(q.TenantIDs, v.([]string)...) }},
	{Param: "jobDefinitionIdIn", Convert: sharedQuery.StringList, Multi: true,
		Assign: func(q *HistoricIncidentQuery, v interface{}) { q.JobDefinitionIDs = append(q.JobDefinitionIDs, v.([]string)...) }},
}

// ---------------- Whitelist de ordenación ----------------

// La whitelist y el despacho de ordenación son el mismo mapa: un campo que
// no resuelve aquí es un error de validación, nunca un no-op silencioso.
var historicIncidentSortFields = map[string]IncidentSortField{
	"incidentId":          SortIncidentID,
	"incidentMessage":     SortIncidentMessage,
	"createTime":          SortCreateTime,
	"endTime":             SortEndTime,
	"incidentType":        SortIncidentType,
	"executionId":         SortExecutionID,
	"activityId":          SortActivityID,
	"processInstanceId":   SortProcessInstanceID,
	"processDefinitionId": SortProcessDefinitionID,
	"causeIncidentId":     SortCauseIncidentID,
	"rootCauseIncidentId": SortRootCauseIncidentID,
	"configuration":       SortConfiguration,
	"tenantId":            SortTenantID,
	"incidentState":       SortIncidentState,
}

// ---------------- Binding ----------------

// BindHistoricIncidentQuery liga los parámetros crudos en un holder tipado.
// Un fallo de conversión no devuelve holder parcial.
func BindHistoricIncidentQuery(params sharedQuery.Params) (*HistoricIncidentQuery, error) {
	var q HistoricIncidentQuery
	if err := sharedQuery.Bind(historicIncidentParams, params, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ---------------- Contrato de consulta ----------------

func (q *HistoricIncidentQuery) QueryType() string { return "historic incident" }

func (q *HistoricIncidentQuery) IsValidSortField(field string) bool {
	_, ok := historicIncidentSortFields[field]
	return ok
}

// ApplyFilters invoca una llamada de filtro por cada campo asignado. Los
// marcadores booleanos solo se aplican con true explícito: open=false
// equivale a no enviar open.
func (q *HistoricIncidentQuery) ApplyFilters(h IncidentQuery) {
	if q.IncidentID != nil {
		h.IncidentID(*q.IncidentID)
	}
	if q.IncidentType != nil {
		h.IncidentType(*q.IncidentType)
	}
	if q.IncidentMessage != nil {
		h.IncidentMessage(*q.IncidentMessage)
	}
	if q.ProcessDefinitionID != nil {
		h.ProcessDefinitionID(*q.ProcessDefinitionID)
	}
	if q.ProcessInstanceID != nil {
		h.ProcessInstanceID(*q.ProcessInstanceID)
	}
	if q.ExecutionID != nil {
		h.ExecutionID(*q.ExecutionID)
	}
	if q.ActivityID != nil {
		h.ActivityID(*q.ActivityID)
	}
	if q.CauseIncidentID != nil {
		h.CauseIncidentID(*q.CauseIncidentID)
	}
	if q.RootCauseIncidentID != nil {
		h.RootCauseIncidentID(*q.RootCauseIncidentID)
	}
	if q.Configuration != nil {
		h.Configuration(*q.Configuration)
	}
	if q.Open != nil && *q.Open {
		h.Open()
	}
	if q.Resolved != nil && *q.Resolved {
		h.Resolved()
	}
	if q.Deleted != nil && *q.Deleted {
		h.Deleted()
	}
	if len(q.TenantIDs) > 0 {
		h.TenantIDIn(q.TenantIDs)
	}
	if len(q.JobDefinitionIDs) > 0 {
		h.JobDefinitionIDIn(q.JobDefinitionIDs)
	}
}

// ApplySort aplica un criterio ya validado por el resolver; un campo fuera
// del mapa no llega hasta aquí.
func (q *HistoricIncidentQuery) ApplySort(h IncidentQuery, c sharedQuery.SortCriterion) {
	field, ok := historicIncidentSortFields[c.Field]
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

// ---------------- Helpers de cache ----------------

// CountCacheKey forma una key estable para cachear counts: los parámetros
// crudos normalizados por orden de clave.
func CountCacheKey(params sharedQuery.Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("incident:count")
	for _, k := range keys {
		for _, v := range params[k] {
			b.WriteString("|")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
	}
	return b.String()
}
