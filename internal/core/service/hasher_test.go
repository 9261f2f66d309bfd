package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !h.Verify(ctx, "hunter2", hash) {
		t.Fatalf("expected verify to succeed")
	}
	if h.Verify(ctx, "hunter3", hash) {
		t.Fatalf("expected verify to fail for wrong password")
	}
}

func TestBcryptHasher_SaltedOutput(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	a, err := h.Hash(ctx, "same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash(ctx, "same-input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same input must differ (random salt)")
	}
	if !h.Verify(ctx, "same-input", a) || !h.Verify(ctx, "same-input", b) {
		t.Fatalf("both hashes must verify")
	}
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	// Concurrency limit of 1 with the slot held: acquisition must respect
	// context cancellation instead of queueing forever.
	h := NewBcryptHasher(bcrypt.MinCost, 1)

	if err := h.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Hash(ctx, "pw"); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
	if h.Verify(ctx, "pw", "$2a$04$invalid") {
		t.Fatalf("verify with cancelled context must fail closed")
	}
}
