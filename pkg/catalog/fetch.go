package catalog

import (
	"context"
	"errors"

	"github.com/orbitfit/hipiad/internal/logger"
)

// Fetch returns the catalog solution for a HIP number, consulting the local
// cache before the remote service. Either cache or client may be nil; at
// least one source must produce a solution.
func Fetch(ctx context.Context, hip string, cache *Cache, client *VizierClient, log *logger.Logger) (*Solution, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithTarget(hip)

	if cache != nil {
		sol, err := cache.Get(hip)
		if err == nil {
			log.Debugw("catalog solution served from cache")
			return sol, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			return nil, err
		}
	}

	if client == nil {
		return nil, errors.New("catalog solution not cached and no VizieR client configured")
	}

	log.Infow("querying VizieR", "catalog", hip2Catalog)
	sol, err := client.Query(ctx, hip)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(sol); err != nil {
			log.Warnw("failed to cache catalog solution", "error", err)
		}
	}
	return sol, nil
}
