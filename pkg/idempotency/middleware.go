package idempotency

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const HeaderKey = "Idempotency-Key"

// Store remembers request keys in Redis for a TTL. SetNX makes the
// first writer win, so replays of the same key are detected without a
// read-then-write race.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) key(scope, key string) string {
	return fmt.Sprintf("idem:%s:%s", scope, key)
}

// Seen records the key and reports whether it had been recorded before.
func (s *Store) Seen(ctx context.Context, scope, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key(scope, key), "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Release forgets a key so the same request may be retried.
func (s *Store) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, s.key(scope, key)).Err()
}

// KeyStore is the store surface the middleware needs.
type KeyStore interface {
	Seen(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Middleware rejects replayed requests carrying an Idempotency-Key the
// store has already seen, with 409. Requests without the header pass
// through untouched; the header is opt-in for clients that retry.
// A key only sticks when the wrapped handler answers 2xx: a failed
// request releases it, so the client can retry with the same key.
func Middleware(store KeyStore, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			seen, err := store.Seen(r.Context(), scope, key)
			if err != nil {
				// Redis being down should not block checkouts; the
				// order-number uniqueness still protects the store.
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				http.Error(w, `{"error":"duplicate request"}`, http.StatusConflict)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status > 299 {
				// Best effort: if the delete fails the TTL still
				// expires the key.
				_ = store.Release(r.Context(), scope, key)
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
