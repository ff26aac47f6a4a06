package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

// FailureLimiter locks out clients that keep sending rejected requests.
// Each lockout doubles the previous one up to the configured maximum.
type FailureLimiter struct {
	mu                sync.Mutex
	clients           map[string]*failureInfo
	maxFailures       int
	lockoutSeconds    int
	maxLockoutSeconds int
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type failureInfo struct {
	failures     int
	lockedUntil  time.Time
	lockoutCount int
}

// NewFailureLimiter creates a limiter and starts its cleanup goroutine.
func NewFailureLimiter(cfg config.RateLimitConfig) *FailureLimiter {
	fl := &FailureLimiter{
		clients:           make(map[string]*failureInfo),
		maxFailures:       cfg.MaxFailures,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
	}

	if fl.maxFailures == 0 {
		fl.maxFailures = 5
	}
	if fl.lockoutSeconds == 0 {
		fl.lockoutSeconds = 30
	}
	if fl.maxLockoutSeconds == 0 {
		fl.maxLockoutSeconds = 300
	}

	go fl.cleanupLoop()
	return fl
}

// Stop stops the cleanup goroutine.
func (fl *FailureLimiter) Stop() {
	fl.stopOnce.Do(func() { close(fl.stopCleanup) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (fl *FailureLimiter) IsLocked(ip string) (bool, time.Duration) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	info, exists := fl.clients[ip]
	if !exists {
		return false, 0
	}
	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}
	return false, 0
}

// RecordFailure counts a rejected request and reports whether ip is now
// locked out.
func (fl *FailureLimiter) RecordFailure(ip string) (bool, time.Duration) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	info, exists := fl.clients[ip]
	if !exists {
		info = &failureInfo{}
		fl.clients[ip] = info
	}

	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}

	info.failures++
	if info.failures < fl.maxFailures {
		return false, 0
	}

	info.lockoutCount++
	lockout := time.Duration(fl.lockoutSeconds) * time.Second
	maxLockout := time.Duration(fl.maxLockoutSeconds) * time.Second
	for i := 1; i < info.lockoutCount; i++ {
		if lockout >= maxLockout/2 {
			lockout = maxLockout
			break
		}
		lockout *= 2
	}
	if lockout > maxLockout {
		lockout = maxLockout
	}
	info.lockedUntil = time.Now().Add(lockout)
	info.failures = 0
	return true, lockout
}

// RecordSuccess clears the failure count for ip.
func (fl *FailureLimiter) RecordSuccess(ip string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	delete(fl.clients, ip)
}

// Failures returns the current failure count for ip.
func (fl *FailureLimiter) Failures(ip string) int {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if info, exists := fl.clients[ip]; exists {
		return info.failures
	}
	return 0
}

func (fl *FailureLimiter) cleanupLoop() {
	ticker := time.NewTicker(fl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-fl.stopCleanup:
			return
		case <-ticker.C:
			fl.cleanup()
		}
	}
}

// cleanup drops clients unlocked for ten minutes with no pending failures.
func (fl *FailureLimiter) cleanup() {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, info := range fl.clients {
		if info.lockedUntil.Before(cutoff) && info.failures == 0 {
			delete(fl.clients, ip)
		}
	}
}
