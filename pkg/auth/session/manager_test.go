package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "cb:session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}

	ok, err = mgr.HasSession(ctx, "jti-unknown")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no session for unknown id")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	token, err := mgr.Generate(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newID, newToken, err := mgr.Rotate(ctx, "jti-1", token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newID == "jti-1" || newToken == token {
		t.Fatal("rotation should issue a fresh pair")
	}

	if ok, _ := mgr.HasSession(ctx, "jti-1"); ok {
		t.Fatal("old session should be revoked after rotation")
	}
	if ok, _ := mgr.HasSession(ctx, newID); !ok {
		t.Fatal("new session should exist after rotation")
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, "jti-1", "wrong-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	if _, err := mgr.Generate(ctx, "jti-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if ok, _ := mgr.HasSession(ctx, "jti-1"); ok {
		t.Fatal("session should be gone after revoke")
	}
}
