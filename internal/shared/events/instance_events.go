package events

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de evento emitidos por el motor para instancias de proceso.
const (
	InstanceStarted   = "instance.started"
	InstanceSuspended = "instance.suspended"
	InstanceActivated = "instance.activated"
	InstanceEnded     = "instance.ended"
)

type InstanceSnapshot struct {
	ID                     uuid.UUID `json:"id"`
	BusinessKey            string    `json:"businessKey"`
	ProcessDefinitionID    string    `json:"processDefinitionId"`
	ProcessDefinitionKey   string    `json:"processDefinitionKey"`
	SuperProcessInstanceID string    `json:"superProcessInstanceId,omitempty"`
	SubProcessInstanceID   string    `json:"subProcessInstanceId,omitempty"`
	TenantID               string    `json:"tenantId"`
	Suspended              bool      `json:"suspended"`
	StartTime              time.Time `json:"startTime"`
}

// InstanceEnded solo necesita el identificador.
type InstanceRef struct {
	ID uuid.UUID `json:"id"`
}
