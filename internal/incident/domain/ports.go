package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------

var (
	ErrInvalidIncident = errors.New("invalid incident")
)

// ---------- Campos de ordenación ----------

// IncidentSortField es una columna de ordenación válida del motor.
type IncidentSortField string

const (
	SortIncidentID          IncidentSortField = "incidentId"
	SortIncidentMessage     IncidentSortField = "incidentMessage"
	SortCreateTime          IncidentSortField = "createTime"
	SortEndTime             IncidentSortField = "endTime"
	SortIncidentType        IncidentSortField = "incidentType"
	SortExecutionID         IncidentSortField = "executionId"
	SortActivityID          IncidentSortField = "activityId"
	SortProcessInstanceID   IncidentSortField = "processInstanceId"
	SortProcessDefinitionID IncidentSortField = "processDefinitionId"
	SortCauseIncidentID     IncidentSortField = "causeIncidentId"
	SortRootCauseIncidentID IncidentSortField = "rootCauseIncidentId"
	SortConfiguration       IncidentSortField = "configuration"
	SortTenantID            IncidentSortField = "tenantId"
	SortIncidentState       IncidentSortField = "incidentState"
)

// ---------- Interfaces (Ports) ----------

// IncidentEngine crea consultas nuevas contra el histórico de incidentes.
// Cada llamada devuelve un handle virgen, propiedad exclusiva de una sola
// petición.
type IncidentEngine interface {
	CreateIncidentQuery() IncidentQuery
}

// IncidentQuery es el handle opaco del motor: acumula filtros y ordenación
// y termina en una de las tres operaciones de ejecución. Las llamadas de
// marcador (Open, Resolved, Deleted) no llevan argumento: invocarlas
// significa "true"; no existe la variante "false".
type IncidentQuery interface {
	IncidentID(id string)
	IncidentType(t string)
	IncidentMessage(m string)
	ProcessDefinitionID(id string)
	ProcessInstanceID(id string)
	ExecutionID(id string)
	ActivityID(id string)
	CauseIncidentID(id string)
	RootCauseIncidentID(id string)
	Configuration(c string)
	Open()
	Resolved()
	Deleted()
	TenantIDIn(ids []string)
	JobDefinitionIDIn(ids []string)

	// OrderBy añade una columna de ordenación ascendente; Asc/Desc fijan la
	// dirección de la última columna añadida.
	OrderBy(field IncidentSortField)
	Asc()
	Desc()

	List(ctx context.Context) ([]*HistoricIncident, error)
	ListPage(ctx context.Context, first, max int) ([]*HistoricIncident, error)
	Count(ctx context.Context) (int64, error)
}

// IncidentStore permite poblar el histórico desde la ingesta de eventos.
// Save tiene semántica de upsert: la misma ID reemplaza la foto anterior.
type IncidentStore interface {
	Save(ctx context.Context, in *HistoricIncident) error
}

// QueryCache cachea resultados derivados de consultas (counts).
type QueryCache interface {
	// Get intenta poblar dest (puntero) con el valor asociado a la key.
	// Devuelve (true, nil) si hay hit y dest fue rellenado.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set serializa y guarda el valor con TTL en segundos.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	// Delete elimina la key del cache.
	Delete(ctx context.Context, key string) error
}
