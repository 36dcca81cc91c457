package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateListener is told about every transition. It runs outside the breaker's
// lock, in the goroutine whose call caused the transition.
type StateListener func(from, to CircuitState)

// CircuitBreaker guards a remote dependency such as the document store or the
// account service. After failureThreshold consecutive failures it rejects
// calls for openTimeout, then lets halfOpenMaxReq trial calls decide whether to
// close again.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int
	listener         StateListener
	now              func() time.Time

	state        CircuitState
	failures     int
	openedAt     time.Time
	trials       int
	trialsPassed int
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	cfg := CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}.Normalize()

	return &CircuitBreaker{
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenMaxReq:   cfg.HalfOpenMaxReq,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// OnStateChange installs fn as the transition listener. Call it before the
// breaker is shared.
func (b *CircuitBreaker) OnStateChange(fn StateListener) {
	if b == nil {
		return
	}
	b.listener = fn
}

// Do runs fn when the breaker admits the call and records its outcome.
// Errors for which countable returns false do not trip the breaker.
func (b *CircuitBreaker) Do(fn func() error, countable func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil && (countable == nil || countable(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	from := b.state
	err := b.admitLocked()
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) admitLocked() error {
	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.moveLocked(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.trials >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.trials++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.trials = max(b.trials-1, 0)
		b.trialsPassed++
		if b.trialsPassed >= b.halfOpenMaxReq && b.trials == 0 {
			b.moveLocked(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.moveLocked(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.moveLocked(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports the effective state. An open breaker whose timeout has passed
// reads as half-open even before the next call moves it there.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// moveLocked switches state and resets the counters that belong to it.
func (b *CircuitBreaker) moveLocked(to CircuitState) {
	b.state = to
	b.trials = 0
	b.trialsPassed = 0
	switch to {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.listener != nil {
		b.listener(from, to)
	}
}
