package security

import (
	"strings"
	"testing"

	"github.com/angelmondragon/reelhouse-backend/pkg/config"
)

func testParams() config.PasswordConfig {
	// Small parameters keep the test fast; production values come from env.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", testParams())
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := VerifyPassword("hunter2", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword("", testParams()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	if _, err := VerifyPassword("pw", "$bcrypt$nope"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
