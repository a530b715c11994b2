package domain

import (
	"time"

	"github.com/google/uuid"
)

// ---------------- Estado del incidente ----------------

type IncidentState string

const (
	StateOpen     IncidentState = "open"
	StateResolved IncidentState = "resolved"
	StateDeleted  IncidentState = "deleted"
)

// ---------------- Entidad ----------------

// HistoricIncident es la foto histórica de un incidente del motor de
// procesos: se crea al abrirse el incidente y se actualiza al resolverse
// o borrarse.
type HistoricIncident struct {
	ID                  uuid.UUID
	IncidentType        string // ej. "failedJob", "failedExternalTask"
	IncidentMessage     string
	CreateTime          time.Time
	EndTime             *time.Time // nil mientras el incidente siga abierto
	ExecutionID         string
	ActivityID          string
	ProcessInstanceID   string
	ProcessDefinitionID string
	CauseIncidentID     string
	RootCauseIncidentID string
	Configuration       string
	TenantID            string
	JobDefinitionID     string
	State               IncidentState
}
