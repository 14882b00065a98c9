package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string {
	return "rh:session:access:" + accessID
}

func newTestManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	ok, err := m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}
}

func TestRotate(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newAccessID, newToken, err := m.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newAccessID == accessID || newToken == token {
		t.Fatal("rotation must issue a fresh pair")
	}

	if _, ok := store.values["rh:session:access:"+accessID]; ok {
		t.Fatal("old session should be deleted after rotation")
	}

	if _, _, err := m.Rotate(ctx, accessID, token); err != ErrInvalidRefreshToken {
		t.Fatalf("reusing rotated token should fail, got %v", err)
	}
}

func TestRotate_WrongToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := m.Generate(ctx, accessID); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := m.Rotate(ctx, accessID, "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := m.Generate(ctx, accessID); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := m.Revoke(ctx, accessID); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	ok, err := m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if ok {
		t.Fatal("expected session to be revoked")
	}
}
