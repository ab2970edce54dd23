package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/infraflow-ai/infraflow/pkg/identity"
)

// pruneAfter is how long an idle client keeps its budget.
const pruneAfter = time.Hour

// RateLimiter enforces per-minute and per-hour request budgets per caller.
// Authenticated callers are keyed by user id, anonymous ones by client IP.
type RateLimiter struct {
	mu        sync.Mutex
	perMinute int
	perHour   int
	clients   map[string]*budget
	lastPrune time.Time

	TrustedProxy func(ip string) bool
	now          func() time.Time
}

type budget struct {
	minute *rate.Limiter
	hour   *rate.Limiter
	seen   time.Time
}

// NewRateLimiter returns a limiter. A budget of zero or less is unlimited.
func NewRateLimiter(perMinute, perHour int, trustedProxy func(ip string) bool) *RateLimiter {
	return &RateLimiter{
		perMinute:    perMinute,
		perHour:      perHour,
		clients:      map[string]*budget{},
		TrustedProxy: trustedProxy,
		now:          time.Now,
	}
}

// SetLimits changes both budgets and forgets every client's usage.
func (l *RateLimiter) SetLimits(perMinute, perHour int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perMinute, l.perHour = perMinute, perHour
	l.clients = map[string]*budget{}
}

func newLimiter(n int, per time.Duration) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(per/time.Duration(n)), n)
}

// Allow takes one request from key's budgets. A request denied by either
// budget consumes neither.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	b, ok := l.clients[key]
	if !ok {
		b = &budget{
			minute: newLimiter(l.perMinute, time.Minute),
			hour:   newLimiter(l.perHour, time.Hour),
		}
		l.clients[key] = b
	}
	b.seen = now

	minute := b.minute.ReserveN(now, 1)
	if !minute.OK() || minute.DelayFrom(now) > 0 {
		minute.CancelAt(now)
		return false
	}
	hour := b.hour.ReserveN(now, 1)
	if !hour.OK() || hour.DelayFrom(now) > 0 {
		hour.CancelAt(now)
		minute.CancelAt(now)
		return false
	}
	return true
}

func (l *RateLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < pruneAfter {
		return
	}
	l.lastPrune = now
	for key, b := range l.clients {
		if now.Sub(b.seen) > pruneAfter {
			delete(l.clients, key)
		}
	}
}

// Middleware answers 429 once the caller's budget is spent.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + identity.ClientIP(r, l.TrustedProxy).String()
		if id, ok := identity.Get(r.Context()); ok {
			key = "user:" + id.UserID
		}

		if !l.Allow(key) {
			w.Header().Set("Retry-After", strconv.Itoa(60))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
