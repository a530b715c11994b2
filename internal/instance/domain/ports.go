package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------

var (
	ErrInvalidInstance = errors.New("invalid process instance")
)

// ---------- Campos de ordenación ----------

type InstanceSortField string

const (
	SortInstanceID    InstanceSortField = "instanceId"
	SortDefinitionID  InstanceSortField = "definitionId"
	SortDefinitionKey InstanceSortField = "definitionKey"
	SortBusinessKey   InstanceSortField = "businessKey"
	SortTenantID      InstanceSortField = "tenantId"
)

// ---------- Interfaces (Ports) ----------

// InstanceEngine crea consultas nuevas contra las instancias en ejecución.
type InstanceEngine interface {
	CreateInstanceQuery() InstanceQuery
}

// InstanceQuery es el handle opaco del motor para instancias de proceso.
// Active y Suspended son marcadores: invocarlos significa "true".
type InstanceQuery interface {
	BusinessKey(key string)
	ProcessDefinitionID(id string)
	ProcessDefinitionKey(key string)
	SuperProcessInstance(id string)
	SubProcessInstance(id string)
	Active()
	Suspended()
	TenantIDIn(ids []string)

	OrderBy(field InstanceSortField)
	Asc()
	Desc()

	List(ctx context.Context) ([]*ProcessInstance, error)
	ListPage(ctx context.Context, first, max int) ([]*ProcessInstance, error)
	Count(ctx context.Context) (int64, error)
}

// InstanceStore puebla las instancias desde la ingesta de eventos. Save es
// un upsert; Delete retira la instancia terminada del conjunto consultable.
type InstanceStore interface {
	Save(ctx context.Context, pi *ProcessInstance) error
	Delete(ctx context.Context, id string) error
}
