package ratelimit

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds the per-key token bucket settings
type Config struct {
	RequestsPerMinute int           // 0 disables limiting
	Burst             int           // defaults to RequestsPerMinute
	IdleTTL           time.Duration // keys unseen for this long are dropped
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitService throttles requests per key (a client address) with one
// token bucket per key held in memory
type RateLimitService struct {
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
	mu        sync.Mutex
	logger    *zap.Logger
}

// NewRateLimitService creates a new RateLimitService instance
func NewRateLimitService(cfg Config, logger *zap.Logger) *RateLimitService {
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}

	return &RateLimitService{
		limit:   rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		burst:   cfg.Burst,
		idleTTL: cfg.IdleTTL,
		buckets: make(map[string]*bucket),
		now:     time.Now,
		logger:  logger,
	}
}

// Enabled reports whether requests are limited at all
func (s *RateLimitService) Enabled() bool {
	return s.limit > 0
}

// CheckLimit takes one token from the bucket of key. A denied request takes
// nothing and reports how long until a token is available.
func (s *RateLimitService) CheckLimit(key string) RateLimitResult {
	if !s.Enabled() {
		return RateLimitResult{Allowed: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return RateLimitResult{Allowed: false}
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		s.logger.Debug("rate limit exceeded",
			zap.String("key", key),
			zap.Duration("retry_after", delay))
		return RateLimitResult{Allowed: false, RetryAfter: delay}
	}

	return RateLimitResult{Allowed: true}
}

// Len returns the number of tracked keys
func (s *RateLimitService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// sweepLocked drops idle buckets at most once per idle period
func (s *RateLimitService) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleTTL {
		return
	}
	s.lastSweep = now

	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) >= s.idleTTL {
			delete(s.buckets, key)
		}
	}
}
