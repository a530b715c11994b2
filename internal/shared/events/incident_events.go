package events

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de evento emitidos por el motor para incidencias.
const (
	IncidentOccurred = "incident.occurred"
	IncidentResolved = "incident.resolved"
	IncidentDeleted  = "incident.deleted"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.
type IncidentSnapshot struct {
	ID                  uuid.UUID  `json:"id"`
	IncidentType        string     `json:"incidentType"`
	IncidentMessage     string     `json:"incidentMessage"`
	CreateTime          time.Time  `json:"createTime"`
	EndTime             *time.Time `json:"endTime,omitempty"`
	ExecutionID         string     `json:"executionId"`
	ActivityID          string     `json:"activityId"`
	ProcessInstanceID   string     `json:"processInstanceId"`
	ProcessDefinitionID string     `json:"processDefinitionId"`
	CauseIncidentID     string     `json:"causeIncidentId"`
	RootCauseIncidentID string     `json:"rootCauseIncidentId"`
	Configuration       string     `json:"configuration"`
	TenantID            string     `json:"tenantId"`
	JobDefinitionID     string     `json:"jobDefinitionId"`
}
