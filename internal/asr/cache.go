package asr

import "sync"

type cacheKey struct {
	family string
	model  string
}

// Cache hands out one Engine per (family, model) pair, building each lazily
// on first use. Engine construction is cheap today but the pipeline treats
// engines as expensive so a heavier implementation can slot in later.
type Cache struct {
	mu      sync.Mutex
	factory func(family, model string) Engine
	engines map[cacheKey]Engine
}

// NewCache creates a cache backed by the supplied factory.
func NewCache(factory func(family, model string) Engine) *Cache {
	return &Cache{
		factory: factory,
		engines: make(map[cacheKey]Engine),
	}
}

// Get returns the engine for the pair, creating it on first request.
func (c *Cache) Get(family, model string) Engine {
	key := cacheKey{family: family, model: model}
	c.mu.Lock()
	defer c.mu.Unlock()
	if engine, ok := c.engines[key]; ok {
		return engine
	}
	engine := c.factory(family, model)
	c.engines[key] = engine
	return engine
}
