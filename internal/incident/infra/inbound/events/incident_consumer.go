package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	incidentDomain "github.com/davicafu/flowquery/internal/incident/domain"
	sharedEvents "github.com/davicafu/flowquery/internal/shared/events"
	sharedUtils "github.com/davicafu/flowquery/internal/shared/infra/utils"
)

// IncidentService es el caso de uso que necesita el consumidor; lo implementa
// application.IncidentService.
type IncidentService interface {
	Ingest(ctx context.Context, in *incidentDomain.HistoricIncident) error
}

// IncidentConsumer traduce eventos del motor de procesos a fotos del
// histórico de incidencias. La ingesta es idempotente (upsert por id), así
// que los eventos duplicados no necesitan tratamiento especial.
type IncidentConsumer struct {
	service IncidentService
	log     *zap.Logger
}

func NewIncidentConsumer(service IncidentService, log *zap.Logger) *IncidentConsumer {
	return &IncidentConsumer{service: service, log: log}
}

func (c *IncidentConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.IncidentOccurred:
		sharedUtils.UnmarshalAndHandle[sharedEvents.IncidentSnapshot](c.log, base.Data, func(evt sharedEvents.IncidentSnapshot) {
			c.ingest(ctx, evt, incidentDomain.StateOpen)
		})

	case sharedEvents.IncidentResolved:
		sharedUtils.UnmarshalAndHandle[sharedEvents.IncidentSnapshot](c.log, base.Data, func(evt sharedEvents.IncidentSnapshot) {
			c.ingest(ctx, evt, incidentDomain.StateResolved)
		})

	case sharedEvents.IncidentDeleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.IncidentSnapshot](c.log, base.Data, func(evt sharedEvents.IncidentSnapshot) {
			c.ingest(ctx, evt, incidentDomain.StateDeleted)
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (c *IncidentConsumer) ingest(ctx context.Context, evt sharedEvents.IncidentSnapshot, state incidentDomain.IncidentState) {
	ctxIngest, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	in := &incidentDomain.HistoricIncident{
		ID:                  evt.ID,
		IncidentType:        evt.IncidentType,
		IncidentMessage:     evt.IncidentMessage,
		CreateTime:          evt.CreateTime,
		EndTime:             evt.EndTime,
		ExecutionID:         evt.ExecutionID,
		ActivityID:          evt.ActivityID,
		ProcessInstanceID:   evt.ProcessInstanceID,
		ProcessDefinitionID: evt.ProcessDefinitionID,
		CauseIncidentID:     evt.CauseIncidentID,
		RootCauseIncidentID: evt.RootCauseIncidentID,
		Configuration:       evt.Configuration,
		TenantID:            evt.TenantID,
		JobDefinitionID:     evt.JobDefinitionID,
		State:               state,
	}

	if err := c.service.Ingest(ctxIngest, in); err != nil {
		c.log.Warn("Failed to ingest incident snapshot",
			zap.String("incident_id", evt.ID.String()),
			zap.Error(err),
		)
		return
	}

	c.log.Info("Incident snapshot ingested via event",
		zap.String("incident_id", evt.ID.String()),
		zap.String("state", string(state)),
	)
}
