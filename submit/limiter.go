package submit

import (
	"sync"
	"time"

	"github.com/fwojciec/htmldrop"
	"golang.org/x/time/rate"
)

// Default submission allowance per user.
const (
	DefaultRate   = 5
	DefaultWindow = time.Minute
)

// maxTrackedUsers bounds the limiter map; full buckets are pruned once it
// is reached.
const maxTrackedUsers = 10_000

var _ htmldrop.UserLimiter = (*UserLimiter)(nil)

// UserLimiter provides per-user rate limiting using token buckets.
// Each user may submit n times in a burst, regaining one submission every
// window/n.
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewUserLimiter creates a UserLimiter allowing n submissions per window.
func NewUserLimiter(n int, window time.Duration) *UserLimiter {
	n = max(n, 1)
	return &UserLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(n)),
		burst:    n,
		Now:      time.Now,
	}
}

// Allow reports whether the user may submit now and consumes a token if so.
func (l *UserLimiter) Allow(userID string) bool {
	now := l.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[userID]
	if !ok {
		if len(l.limiters) >= maxTrackedUsers {
			l.prune(now)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	return limiter.AllowN(now, 1)
}

// Tracked returns the number of users with a live bucket.
func (l *UserLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// prune drops users whose bucket has refilled; a new bucket for them
// behaves identically.
func (l *UserLimiter) prune(now time.Time) {
	for id, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, id)
		}
	}
}
