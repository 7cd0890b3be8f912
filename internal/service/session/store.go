package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/observability/telemetry"
	"github.com/seu-repo/ai-secretary/internal/ports"
)

const (
	keyPrefix = "pending:"
	tombstone = "\x00cleared"

	DefaultTTL           = 30 * time.Minute
	DefaultMaxRetries    = 3
	DefaultSweepInterval = 5 * time.Minute
)

type Options struct {
	TTL        time.Duration
	MaxRetries int
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Store implements ports.SessionStore over a durable primary backend and a
// process-local fallback. A nil primary runs on the fallback alone.
type Store struct {
	primary    ports.KVStore
	fallback   ports.KVStore
	ttl        time.Duration
	maxRetries int
	now        func() time.Time
	degraded   atomic.Bool
	log        *zap.Logger
}

func NewStore(primary, fallback ports.KVStore, opts Options, log *zap.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		primary:    primary,
		fallback:   fallback,
		ttl:        opts.TTL,
		maxRetries: opts.MaxRetries,
		now:        opts.Now,
		log:        log,
	}
	if primary == nil {
		s.degraded.Store(true)
		log.Warn("Session store running without durable backend, using in-memory map")
	}
	return s
}

func sessionKey(userID string) string {
	return keyPrefix + userID
}

// Degraded reports whether the last primary operation failed or no primary
// is configured.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

func (s *Store) Get(ctx context.Context, userID string) (*domain.PendingSession, bool) {
	key := sessionKey(userID)
	raw, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}

	var sess domain.PendingSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.log.Warn("Dropping unreadable pending session", zap.String("user_id", userID), zap.Error(err))
		s.remove(ctx, key)
		return nil, false
	}

	if sess.Expired(s.now()) {
		s.remove(ctx, key)
		return nil, false
	}
	return &sess, true
}

// Set replaces the user's session. CreatedAt is kept when already set and
// ExpiresAt is always pushed to now + TTL.
func (s *Store) Set(ctx context.Context, userID string, session *domain.PendingSession) {
	if session == nil {
		return
	}
	now := s.now()
	stored := *session
	stored.UserID = userID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.ExpiresAt = now.Add(s.ttl)

	s.write(ctx, sessionKey(userID), &stored)
}

func (s *Store) Update(ctx context.Context, userID string, update domain.SessionUpdate) bool {
	sess, ok := s.Get(ctx, userID)
	if !ok {
		return false
	}

	if update.Step != nil {
		sess.Step = *update.Step
	}
	if update.Slots != nil {
		sess.Slots = *update.Slots
	}
	if update.RetryCount != nil {
		sess.RetryCount = *update.RetryCount
	}
	sess.ExpiresAt = s.now().Add(s.ttl)

	s.write(ctx, sessionKey(userID), sess)
	return true
}

func (s *Store) Clear(ctx context.Context, userID string) {
	s.remove(ctx, sessionKey(userID))
}

func (s *Store) IncrementRetry(ctx context.Context, userID string) bool {
	sess, ok := s.Get(ctx, userID)
	if !ok {
		return false
	}

	sess.RetryCount++
	if sess.RetryCount >= s.maxRetries {
		s.log.Info("Retry limit reached, clearing pending session",
			zap.String("user_id", userID),
			zap.Int("retries", sess.RetryCount),
		)
		s.Clear(ctx, userID)
		return false
	}

	sess.ExpiresAt = s.now().Add(s.ttl)
	s.write(ctx, sessionKey(userID), sess)
	return true
}

// ListAll returns every live session across both backends.
func (s *Store) ListAll(ctx context.Context) []domain.PendingSession {
	var sessions []domain.PendingSession
	for _, key := range s.keys(ctx) {
		if sess, ok := s.Get(ctx, strings.TrimPrefix(key, keyPrefix)); ok {
			sessions = append(sessions, *sess)
		}
	}
	return sessions
}

// SweepExpired removes expired and unreadable sessions and returns how many
// were dropped.
func (s *Store) SweepExpired(ctx context.Context) int {
	now := s.now()
	removed, live := 0, 0

	for _, key := range s.keys(ctx) {
		raw, ok := s.read(ctx, key)
		if !ok {
			continue
		}
		var sess domain.PendingSession
		if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Expired(now) {
			s.remove(ctx, key)
			removed++
			continue
		}
		live++
	}

	telemetry.PendingSessions.Set(float64(live))
	if removed > 0 {
		telemetry.SessionsSwept.Add(float64(removed))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepExpired(ctx); n > 0 {
				s.log.Info("Swept expired pending sessions", zap.Int("count", n))
			}
		}
	}
}

// read consults the fallback first. A fallback entry only exists while the
// primary missed a write or a delete for that key, so it takes precedence.
func (s *Store) read(ctx context.Context, key string) (string, bool) {
	if raw, err := s.fallback.Get(ctx, key); err == nil {
		if raw == tombstone {
			s.retryDelete(ctx, key)
			return "", false
		}
		return raw, true
	}

	if s.primary == nil {
		return "", false
	}
	raw, err := s.primary.Get(ctx, key)
	switch {
	case err == nil:
		s.recovered()
		return raw, true
	case errors.Is(err, ports.ErrKeyNotFound):
		s.recovered()
	default:
		s.degrade("get", key, err)
	}
	return "", false
}

func (s *Store) write(ctx context.Context, key string, sess *domain.PendingSession) {
	data, err := json.Marshal(sess)
	if err != nil {
		s.log.Error("Failed to encode pending session", zap.String("key", key), zap.Error(err))
		return
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		s.remove(ctx, key)
		return
	}

	if s.primary != nil {
		err := s.primary.SetEX(ctx, key, string(data), ttl)
		if err == nil {
			s.recovered()
			_ = s.fallback.Delete(ctx, key)
			return
		}
		s.degrade("set", key, err)
	}

	if err := s.fallback.SetEX(ctx, key, string(data), ttl); err != nil {
		s.log.Error("Fallback session write failed", zap.String("key", key), zap.Error(err))
	}
}

// remove leaves a tombstone in the fallback when the primary delete fails so
// the surviving primary copy stays hidden until a later delete lands.
func (s *Store) remove(ctx context.Context, key string) {
	if s.primary != nil {
		if err := s.primary.Delete(ctx, key); err != nil {
			s.degrade("delete", key, err)
			if err := s.fallback.SetEX(ctx, key, tombstone, s.ttl); err != nil {
				s.log.Error("Fallback tombstone write failed", zap.String("key", key), zap.Error(err))
			}
			return
		}
		s.recovered()
	}
	_ = s.fallback.Delete(ctx, key)
}

func (s *Store) retryDelete(ctx context.Context, key string) {
	if s.primary == nil {
		_ = s.fallback.Delete(ctx, key)
		return
	}
	if err := s.primary.Delete(ctx, key); err != nil {
		s.degrade("delete", key, err)
		return
	}
	s.recovered()
	_ = s.fallback.Delete(ctx, key)
}

func (s *Store) keys(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var keys []string
	collect := func(list []string) {
		for _, k := range list {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}

	if s.primary != nil {
		list, err := s.primary.Keys(ctx, keyPrefix)
		if err != nil {
			s.degrade("keys", keyPrefix, err)
		} else {
			collect(list)
		}
	}
	if list, err := s.fallback.Keys(ctx, keyPrefix); err == nil {
		collect(list)
	}
	return keys
}

func (s *Store) degrade(op, key string, err error) {
	telemetry.SessionStoreFallbacks.WithLabelValues(op).Inc()
	s.degraded.Store(true)
	s.log.Warn("Session backend failed, using in-memory fallback",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

func (s *Store) recovered() {
	if s.primary != nil {
		s.degraded.Store(false)
	}
}
