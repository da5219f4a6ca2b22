package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = map[string]string{}
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	})
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls))

	body := `{"balance":"120.00","points":10}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/customers/abc/balance", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "key-1")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201 got %d", i, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `"ok":true`) {
			t.Fatalf("request %d: unexpected body %s", i, resp.Body.String())
		}
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls))

	first := httptest.NewRequest(http.MethodPut, "/api/admin/v1/customers/abc/balance", strings.NewReader(`{"balance":"120.00"}`))
	first.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPut, "/api/admin/v1/customers/abc/balance", strings.NewReader(`{"balance":"999.00"}`))
	second.Header.Set("Idempotency-Key", "key-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, second)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without the header")
	}
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected passthrough, got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run, ran %d times", calls)
	}
}
