package ports

import (
	"context"
	"errors"
	"time"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// ErrKeyNotFound is returned by KVStore.Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a TTL-capable key/value backend.
type KVStore interface {
	SetEX(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// Keys returns every live key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

type EventRepository interface {
	Save(ctx context.Context, event *domain.CalendarEvent) error
	FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error)
}

type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	FindByUserID(ctx context.Context, userID string) ([]domain.Task, error)
}
