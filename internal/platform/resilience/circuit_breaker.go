package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// CircuitBreaker trips after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then lets HalfOpenMaxReq trial calls through. Only
// errors the classifier reports as failures move it; everything else counts
// as a healthy answer from the dependency.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg       Config
	isFailure func(error) bool
	onChange  func(from, to State)
	now       func() time.Time

	state          State
	failures       int
	openedAt       time.Time
	trialsInFlight int
	trialSuccesses int
	rejected       uint64
}

// NewCircuitBreaker normalizes cfg. isFailure nil treats every non-nil error
// as a failure; onChange may be nil.
func NewCircuitBreaker(cfg Config, isFailure func(error) bool, onChange func(from, to State)) *CircuitBreaker {
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}
	return &CircuitBreaker{
		cfg:       cfg.normalized(),
		isFailure: isFailure,
		onChange:  onChange,
		now:       time.Now,
		state:     StateClosed,
	}
}

// Do runs fn unless the breaker is open and records its outcome. A canceled
// caller context is not held against the dependency.
func (b *CircuitBreaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		b.release()
	case err != nil && b.isFailure(err):
		b.recordFailure()
	default:
		b.recordSuccess()
	}
	return err
}

func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Rejected counts calls turned away while open.
func (b *CircuitBreaker) Rejected() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejected
}

func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.rejected++
			return ErrCircuitOpen
		}
		b.moveTo(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.trialsInFlight >= b.cfg.HalfOpenMaxReq {
			b.rejected++
			return ErrCircuitOpen
		}
		b.trialsInFlight++
	}
	return nil
}

func (b *CircuitBreaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.trialsInFlight = max(b.trialsInFlight-1, 0)
		b.trialSuccesses++
		if b.trialSuccesses >= b.cfg.HalfOpenMaxReq && b.trialsInFlight == 0 {
			b.moveTo(StateClosed)
		}
	}
}

func (b *CircuitBreaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(StateOpen)
		}
	case StateHalfOpen:
		b.moveTo(StateOpen)
	case StateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trialsInFlight = max(b.trialsInFlight-1, 0)
	}
}

// moveTo must be called with b.mu held.
func (b *CircuitBreaker) moveTo(next State) {
	prev := b.state
	b.state = next
	b.trialsInFlight = 0
	b.trialSuccesses = 0
	switch next {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
	if b.onChange != nil && prev != next {
		b.onChange(prev, next)
	}
}
