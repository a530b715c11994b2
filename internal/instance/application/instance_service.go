package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/flowquery/internal/instance/domain"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// InstanceService define los casos de uso de búsqueda sobre instancias de
// proceso en ejecución.
type InstanceService struct {
	engine domain.InstanceEngine
	store  domain.InstanceStore
	log    *zap.Logger
}

// NewInstanceService constructor. store puede ser nil si no hay ingesta.
func NewInstanceService(engine domain.InstanceEngine, store domain.InstanceStore, log *zap.Logger) *InstanceService {
	return &InstanceService{engine: engine, store: store, log: log}
}

// Search liga, valida y ejecuta la consulta de instancias.
func (s *InstanceService) Search(ctx context.Context, params sharedQuery.Params, page sharedQuery.Page) ([]*domain.ProcessInstance, error) {
	q, err := domain.BindProcessInstanceQuery(params)
	if err != nil {
		return nil, err
	}

	criteria, err := sharedQuery.ParseSort(params)
	if err != nil {
		return nil, err
	}

	return sharedQuery.Search[*domain.ProcessInstance](ctx, q, s.engine.CreateInstanceQuery, criteria, page)
}

// Count devuelve la cardinalidad de la consulta. La ordenación se valida
// igual que en el listado aunque no se aplique.
func (s *InstanceService) Count(ctx context.Context, params sharedQuery.Params) (int64, error) {
	q, err := domain.BindProcessInstanceQuery(params)
	if err != nil {
		return 0, err
	}

	criteria, err := sharedQuery.ParseSort(params)
	if err != nil {
		return 0, err
	}

	return sharedQuery.SearchCount[*domain.ProcessInstance](ctx, q, s.engine.CreateInstanceQuery, criteria)
}

// Ingest guarda la foto de una instancia que sigue viva en el motor.
func (s *InstanceService) Ingest(ctx context.Context, pi *domain.ProcessInstance) error {
	if pi == nil || pi.ProcessDefinitionID == "" {
		return domain.ErrInvalidInstance
	}
	if pi.StartTime.IsZero() {
		pi.StartTime = time.Now().UTC()
	}

	if err := s.store.Save(ctx, pi); err != nil {
		return err
	}

	s.log.Debug("process instance snapshot ingested", zap.String("instance_id", pi.ID.String()))
	return nil
}

// Remove retira una instancia terminada del conjunto consultable.
func (s *InstanceService) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
