package events

import (
	"encoding/json"
	"time"
)

// IntegrationEvent es el sobre común de todos los eventos que llegan por
// Kafka desde el motor de procesos.
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}
