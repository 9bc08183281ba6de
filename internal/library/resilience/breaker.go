package resilience

import (
	"sync"
	"time"
)

// State 斷路器狀態
type State string

const (
	// StateClosed calls go through
	StateClosed State = "CLOSED"
	// StateOpen calls short-circuit to the fallback
	StateOpen State = "OPEN"
)

const (
	// DefaultFailureThreshold consecutive failures that open the breaker
	DefaultFailureThreshold = 3
	// DefaultCooldown time after the last failure before a new attempt
	DefaultCooldown = 30 * time.Second
)

// Breaker counts consecutive failures. Once the count reaches the threshold
// it reports OPEN until cooldown has elapsed since the last failure, then the
// next check resets it to CLOSED with a zero count. Safe for concurrent use.
type Breaker struct {
	mu          sync.Mutex
	threshold   int
	cooldown    time.Duration
	now         func() time.Time
	failures    int
	lastFailure time.Time
	state       State

	onStateChange func(from, to State)
}

// BreakerOption 設定 Breaker
type BreakerOption func(*Breaker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) { b.now = now }
}

// WithStateChange registers a hook called (outside the lock) on every transition
func WithStateChange(fn func(from, to State)) BreakerOption {
	return func(b *Breaker) { b.onStateChange = fn }
}

// NewBreaker 建立斷路器，非正值使用預設
func NewBreaker(threshold int, cooldown time.Duration, opts ...BreakerOption) *Breaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	b := &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		state:     StateClosed,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Allow reports whether a call may go through, resetting an OPEN breaker
// whose cooldown has elapsed
func (b *Breaker) Allow() bool {
	return b.check() == StateClosed
}

// State reports the current state, applying the cooldown reset
func (b *Breaker) State() State {
	return b.check()
}

// Failures current consecutive failure count
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// RecordFailure counts a failed call
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	from := b.state
	b.failures++
	b.lastFailure = b.now()
	if b.failures >= b.threshold {
		b.state = StateOpen
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// RecordSuccess resets the counter and closes the breaker
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	from := b.state
	b.failures = 0
	b.lastFailure = time.Time{}
	b.state = StateClosed
	b.mu.Unlock()

	b.notify(from, StateClosed)
}

func (b *Breaker) check() State {
	b.mu.Lock()
	from := b.state
	if b.state == StateOpen && b.now().Sub(b.lastFailure) > b.cooldown {
		b.state = StateClosed
		b.failures = 0
		b.lastFailure = time.Time{}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return to
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
