package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcessInstance es una instancia de proceso en ejecución dentro del motor.
type ProcessInstance struct {
	ID                     uuid.UUID
	BusinessKey            string
	ProcessDefinitionID    string
	ProcessDefinitionKey   string
	SuperProcessInstanceID string // vacío si es una instancia raíz
	SubProcessInstanceID   string
	TenantID               string
	Suspended              bool
	StartTime              time.Time
}
