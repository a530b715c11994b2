package mocks

import (
	"context"
	"encoding/json"
	"sync"

	incidentDomain "github.com/davicafu/flowquery/internal/incident/domain"
	sharedCache "github.com/davicafu/flowquery/internal/shared/infra/platform/cache"
)

// DummyCache es un mock de caché en memoria, genérico y seguro para
// concurrencia. Puede almacenar cualquier tipo de objeto serializable a JSON
// y registra los accesos para poder afirmar sobre ellos.
type DummyCache struct {
	store map[string][]byte
	mu    sync.RWMutex

	Gets int
	Sets int
}

// Verificación estática contra los dos contratos de caché.
var (
	_ sharedCache.Cache         = (*DummyCache)(nil)
	_ incidentDomain.QueryCache = (*DummyCache)(nil)
)

func NewDummyCache() *DummyCache {
	return &DummyCache{
		store: make(map[string][]byte),
	}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Gets++
	data, ok := c.store[key]
	if !ok {
		return false, nil // cache miss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.Sets++
	c.store[key] = data
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// Seed precarga una entrada sin pasar por los contadores.
func (c *DummyCache) Seed(key string, val interface{}) {
	data, _ := json.Marshal(val)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
}
