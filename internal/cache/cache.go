// Package cache holds small in-process caches for derived report data.
package cache

import (
	"context"
	"time"

	applog "financas/internal/log"
)

// Cache is a string-keyed cache of computed values.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// DeletePrefix drops every key starting with prefix and reports how many.
	DeletePrefix(prefix string) int
	Size() int
}

// Cleaner is implemented by caches whose entries expire.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically removes expired entries from registered caches.
type Janitor struct {
	caches []Cleaner
	logger *applog.Logger
}

func NewJanitor(logger *applog.Logger, caches ...Cleaner) *Janitor {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Janitor{caches: caches, logger: logger.WithComponent(applog.ComponentCache)}
}

// Run sweeps every interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("expired cache entries removed", "count", n)
			}
		}
	}
}

// Sweep runs one cleanup pass and returns the number of removed entries.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}
