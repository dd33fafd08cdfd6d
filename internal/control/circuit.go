package control

import "time"

type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards the update poll loop against a flapping Telegram
// API. Consecutive failures open it; after the cooldown a single probe is
// allowed through.
type CircuitBreaker struct {
	Threshold int
	Cooldown  time.Duration

	state    CircuitState
	failures int
	openedAt time.Time
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{
		Threshold: threshold,
		Cooldown:  cooldown,
		state:     CircuitClosed,
	}
}

func (c *CircuitBreaker) State() CircuitState {
	return c.state
}

// Allow returns whether new work is allowed at this instant.
func (c *CircuitBreaker) Allow(now time.Time) bool {
	if c.state != CircuitOpen {
		return true
	}
	if now.Sub(c.openedAt) >= c.Cooldown {
		c.state = CircuitHalfOpen
		return true
	}
	return false
}

// RecordSuccess closes the breaker and clears the failure count.
func (c *CircuitBreaker) RecordSuccess() {
	c.state = CircuitClosed
	c.failures = 0
}

// RecordFailure counts an error. A failed half-open probe reopens
// immediately; in the closed state the breaker opens at the threshold.
func (c *CircuitBreaker) RecordFailure(now time.Time) {
	if c.state == CircuitHalfOpen {
		c.state = CircuitOpen
		c.openedAt = now
		return
	}
	c.failures++
	if c.failures >= c.Threshold {
		c.state = CircuitOpen
		c.openedAt = now
	}
}
