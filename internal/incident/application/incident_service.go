package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/flowquery/internal/incident/domain"
	sharedCache "github.com/davicafu/flowquery/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/flowquery/internal/shared/query"
)

// IncidentService define los casos de uso de búsqueda sobre el histórico de
// incidentes: listado paginado, count cacheado e ingesta de fotos.
type IncidentService struct {
	engine domain.IncidentEngine
	store  domain.IncidentStore
	cache  domain.QueryCache
	log    *zap.Logger

	countTTLSecs int
}

// NewIncidentService constructor. store y cache pueden ser nil (servicio de
// solo lectura sin cache).
func NewIncidentService(engine domain.IncidentEngine, store domain.IncidentStore, cache domain.QueryCache, log *zap.Logger) *IncidentService {
	return &IncidentService{
		engine:       engine,
		store:        store,
		cache:        cache,
		log:          log,
		countTTLSecs: 30,
	}
}

// Search liga los parámetros crudos, valida la ordenación y ejecuta el
// listado. Cualquier error de binding o validación se devuelve antes de
// tocar el motor.
func (s *IncidentService) Search(ctx context.Context, params sharedQuery.Params, page sharedQuery.Page) ([]*domain.HistoricIncident, error) {
	q, err := domain.BindHistoricIncidentQuery(params)
	if err != nil {
		return nil, err
	}

	criteria, err := sharedQuery.ParseSort(params)
	if err != nil {
		return nil, err
	}

	return sharedQuery.Search[*domain.HistoricIncident](ctx, q, s.engine.CreateIncidentQuery, criteria, page)
}

// Count devuelve la cardinalidad de la consulta, con cache-aside de TTL
// corto. La staleness queda acotada por el TTL; no se invalida en la
// ingesta porque la key depende de los parámetros de cada petición.
func (s *IncidentService) Count(ctx context.Context, params sharedQuery.Params) (int64, error) {
	q, err := domain.BindHistoricIncidentQuery(params)
	if err != nil {
		return 0, err
	}

	// La ordenación se valida también en el count, antes de mirar la cache:
	// una petición inválida no devuelve ni valores cacheados.
	criteria, err := sharedQuery.ParseSort(params)
	if err != nil {
		return 0, err
	}
	if err := sharedQuery.ResolveSort(q, criteria); err != nil {
		return 0, err
	}

	key := domain.CountCacheKey(params)
	if s.cache != nil {
		var cached int64
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	n, err := sharedQuery.SearchCount[*domain.HistoricIncident](ctx, q, s.engine.CreateIncidentQuery, criteria)
	if err != nil {
		return 0, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, key, n, s.countTTLSecs, s.log)

	return n, nil
}

// Ingest guarda una foto de incidente llegada por eventos. Upsert: la misma
// ID reemplaza la foto anterior.
func (s *IncidentService) Ingest(ctx context.Context, in *domain.HistoricIncident) error {
	if in == nil || in.IncidentType == "" {
		return domain.ErrInvalidIncident
	}
	if in.CreateTime.IsZero() {
		in.CreateTime = time.Now().UTC()
	}
	if in.State == "" {
		in.State = domain.StateOpen
	}

	if err := s.store.Save(ctx, in); err != nil {
		return err
	}

	s.log.Debug("incident snapshot ingested",
		zap.String("incident_id", in.ID.String()),
		zap.String("state", string(in.State)),
	)
	return nil
}
