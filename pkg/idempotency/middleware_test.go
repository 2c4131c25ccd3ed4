package idempotency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	keys     map[string]bool
	released []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]bool{}}
}

func (f *fakeStore) Seen(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if f.keys[k] {
		return true, nil
	}
	f.keys[k] = true
	return false, nil
}

func (f *fakeStore) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(f.keys, k)
	f.released = append(f.released, k)
	return nil
}

func serve(h http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareRejectsReplayAfterSuccess(t *testing.T) {
	store := newFakeStore()
	h := Middleware(store, "checkout")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	assert.Equal(t, http.StatusCreated, serve(h, "key-1").Code)
	assert.Equal(t, http.StatusConflict, serve(h, "key-1").Code)
	assert.Empty(t, store.released)
}

func TestMiddlewareReleasesKeyWhenHandlerFails(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := Middleware(store, "checkout")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))

	require.Equal(t, http.StatusBadRequest, serve(h, "key-1").Code)

	// the key was released, so the retry reaches the handler again
	assert.Equal(t, http.StatusCreated, serve(h, "key-1").Code)
	assert.Equal(t, []string{"checkout:key-1"}, store.released)

	// and only now does the key stick
	assert.Equal(t, http.StatusConflict, serve(h, "key-1").Code)
}

func TestMiddlewareIgnoresRequestsWithoutKey(t *testing.T) {
	store := newFakeStore()
	h := Middleware(store, "checkout")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	assert.Equal(t, http.StatusCreated, serve(h, "").Code)
	assert.Equal(t, http.StatusCreated, serve(h, "").Code)
	assert.Empty(t, store.keys)
}
