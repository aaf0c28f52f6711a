package ratelimit

import (
	"sync"
	"time"
)

// Rule bounds one method+path to a fixed number of requests per window.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
}

// Result reports the window state for one checked request, for the
// X-RateLimit response headers.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	RetryIn   time.Duration
}

type window struct {
	ruleKey string
	count   int
	startAt time.Time
}

// Limiter is a fixed-window rate limiter keyed by IP+method+path. Windows
// start at the first request rather than on wall-clock boundaries.
type Limiter struct {
	mu      sync.Mutex
	rules   map[string]Rule // key: "METHOD:PATH"
	windows map[string]*window
	now     func() time.Time
}

// NewLimiter creates a Limiter enforcing the given rules. Requests to
// method+path combinations without a rule always pass.
func NewLimiter(rules []Rule) *Limiter {
	ruleMap := make(map[string]Rule, len(rules))
	for _, r := range rules {
		ruleMap[r.Method+":"+r.Path] = r
	}
	return &Limiter{
		rules:   ruleMap,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow checks whether a request from ip to method+path fits its rule's
// window. With no matching rule it returns (Result{}, true).
func (l *Limiter) Allow(ip, method, path string) (Result, bool) {
	ruleKey := method + ":" + path
	rule, ok := l.rules[ruleKey]
	if !ok {
		return Result{}, true
	}

	key := ip + ":" + ruleKey

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[key]
	if !exists || now.Sub(w.startAt) >= rule.Window {
		l.windows[key] = &window{ruleKey: ruleKey, count: 1, startAt: now}
		return Result{Limit: rule.Limit, Remaining: rule.Limit - 1, ResetAt: now.Add(rule.Window)}, true
	}

	resetAt := w.startAt.Add(rule.Window)

	if w.count >= rule.Limit {
		return Result{
			Limit:   rule.Limit,
			ResetAt: resetAt,
			RetryIn: rule.Window - now.Sub(w.startAt),
		}, false
	}

	w.count++
	return Result{Limit: rule.Limit, Remaining: rule.Limit - w.count, ResetAt: resetAt}, true
}

// Cleanup drops windows past their rule's duration. Call periodically so
// one-off client IPs do not accumulate forever.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		rule, ok := l.rules[w.ruleKey]
		if !ok || now.Sub(w.startAt) >= rule.Window {
			delete(l.windows, key)
		}
	}
}
