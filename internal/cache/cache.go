package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// DedupKey builds the cache key for a known study dedup match. The key
// mirrors the store's match columns: user, patient name, study date.
func DedupKey(userID, patientName, studyDate string) string {
	return "dedup:" + userID + ":" + patientName + ":" + studyDate
}
