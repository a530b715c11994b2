package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	instanceDomain "github.com/davicafu/flowquery/internal/instance/domain"
	sharedEvents "github.com/davicafu/flowquery/internal/shared/events"
	sharedUtils "github.com/davicafu/flowquery/internal/shared/infra/utils"
)

// InstanceService es el caso de uso que necesita el consumidor; lo implementa
// application.InstanceService.
type InstanceService interface {
	Ingest(ctx context.Context, pi *instanceDomain.ProcessInstance) error
	Remove(ctx context.Context, id string) error
}

// InstanceConsumer mantiene el conjunto de instancias en ejecución a partir
// de los eventos del motor: las instancias terminadas dejan de ser
// consultables.
type InstanceConsumer struct {
	service InstanceService
	log     *zap.Logger
}

func NewInstanceConsumer(service InstanceService, log *zap.Logger) *InstanceConsumer {
	return &InstanceConsumer{service: service, log: log}
}

func (c *InstanceConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.InstanceStarted, sharedEvents.InstanceSuspended, sharedEvents.InstanceActivated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.InstanceSnapshot](c.log, base.Data, func(evt sharedEvents.InstanceSnapshot) {
			c.ingest(ctx, evt)
		})

	case sharedEvents.InstanceEnded:
		sharedUtils.UnmarshalAndHandle[sharedEvents.InstanceRef](c.log, base.Data, func(evt sharedEvents.InstanceRef) {
			c.remove(ctx, evt)
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func (c *InstanceConsumer) ingest(ctx context.Context, evt sharedEvents.InstanceSnapshot) {
	ctxIngest, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	pi := &instanceDomain.ProcessInstance{
		ID:                     evt.ID,
		BusinessKey:            evt.BusinessKey,
		ProcessDefinitionID:    evt.ProcessDefinitionID,
		ProcessDefinitionKey:   evt.ProcessDefinitionKey,
		SuperProcessInstanceID: evt.SuperProcessInstanceID,
		SubProcessInstanceID:   evt.SubProcessInstanceID,
		TenantID:               evt.TenantID,
		Suspended:              evt.Suspended,
		StartTime:              evt.StartTime,
	}

	if err := c.service.Ingest(ctxIngest, pi); err != nil {
		c.log.Warn("Failed to ingest instance snapshot",
			zap.String("instance_id", evt.ID.String()),
			zap.Error(err),
		)
		return
	}

	c.log.Info("Process instance snapshot ingested via event", zap.String("instance_id", evt.ID.String()))
}

func (c *InstanceConsumer) remove(ctx context.Context, evt sharedEvents.InstanceRef) {
	ctxRemove, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := c.service.Remove(ctxRemove, evt.ID.String()); err != nil {
		c.log.Warn("Failed to remove ended instance",
			zap.String("instance_id", evt.ID.String()),
			zap.Error(err),
		)
		return
	}

	c.log.Info("Ended process instance removed", zap.String("instance_id", evt.ID.String()))
}
