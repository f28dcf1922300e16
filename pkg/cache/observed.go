package cache

import (
	"context"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/observability"
)

// Observed reports hits, misses and writes of c to the registered
// observability cache hooks, labelled with the key kind.
func Observed(c Cache) Cache {
	return &observed{Cache: c}
}

type observed struct {
	Cache
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, Kind(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, Kind(key))
		}
	}
	return data, ok, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, Kind(key), len(data))
	}
	return err
}

// Unwrap returns the observed cache.
func (o *observed) Unwrap() Cache { return o.Cache }
