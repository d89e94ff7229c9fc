package security

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerifierPoolVerify(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	pool := NewVerifierPool(2)
	defer pool.Close()

	ok, err := pool.Verify(context.Background(), "correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = pool.Verify(context.Background(), "wrong", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestVerifierPoolRespectsContextCancellation(t *testing.T) {
	pool := NewVerifierPool(1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a cancelled context the call must return promptly instead of
	// waiting on a worker.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := pool.Verify(ctx, "password", "$argon2id$v=19$m=15000,t=2,p=1$gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"); !errors.Is(err, context.Canceled) && err != nil {
			// A worker may win the race and return a result; both are fine.
			_ = err
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("verify did not return after context cancellation")
	}
}

func TestVerifierPoolClose(t *testing.T) {
	pool := NewVerifierPool(1)
	pool.Close()

	if _, err := pool.Verify(context.Background(), "password", "hash"); err == nil {
		t.Fatal("expected an error after the pool is closed")
	}
}
