package security

import (
	"context"
	"errors"
	"runtime"
)

// ErrPoolClosed indicates the verifier pool no longer accepts work.
var ErrPoolClosed = errors.New("verifier pool closed")

type verifyTask struct {
	password string
	encoded  string
	result   chan verifyResult
}

type verifyResult struct {
	ok  bool
	err error
}

// VerifierPool runs Argon2id password verification on a fixed set of worker
// goroutines so the expensive key derivation never blocks request handlers.
type VerifierPool struct {
	tasks chan verifyTask
	done  chan struct{}
}

// NewVerifierPool starts workers goroutines. A non-positive count falls back
// to the number of CPUs.
func NewVerifierPool(workers int) *VerifierPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &VerifierPool{
		tasks: make(chan verifyTask),
		done:  make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *VerifierPool) worker() {
	for {
		select {
		case task := <-p.tasks:
			ok, err := VerifyPassword(task.password, task.encoded)
			task.result <- verifyResult{ok: ok, err: err}
		case <-p.done:
			return
		}
	}
}

// Verify submits a verification task and waits for its result or for the
// context to be cancelled.
func (p *VerifierPool) Verify(ctx context.Context, password, encoded string) (bool, error) {
	task := verifyTask{
		password: password,
		encoded:  encoded,
		result:   make(chan verifyResult, 1),
	}

	select {
	case p.tasks <- task:
	case <-p.done:
		return false, ErrPoolClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case res := <-task.result:
		return res.ok, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close stops the workers. In-flight verifications finish; queued callers
// receive ErrPoolClosed.
func (p *VerifierPool) Close() {
	close(p.done)
}
