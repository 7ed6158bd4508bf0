package cache

import "time"

// AttemptLimiter counts failures per key in a fixed window starting at the first failure.
// Login uses it to slow down password guessing.
type AttemptLimiter struct {
	max      int
	failures *TTLMap[string, int]
}

func NewAttemptLimiter(max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{max: max, failures: NewTTLMap[string, int](window)}
}

// Allow reports whether key may try again.
func (l *AttemptLimiter) Allow(key string) bool {
	n, _ := l.failures.Get(key)
	return n < l.max
}

// Fail records one failed attempt and returns the count in the current window.
func (l *AttemptLimiter) Fail(key string) int {
	l.failures.PurgeExpired()
	return l.failures.Update(key, func(n int) int { return n + 1 })
}

// Reset forgets the failures of key, typically after a successful attempt.
func (l *AttemptLimiter) Reset(key string) {
	l.failures.Delete(key)
}
