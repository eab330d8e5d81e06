package ratelimit

import (
	"sync"
	"time"
)

// DefaultCleanupPeriod is how often idle keys are forgotten.
const DefaultCleanupPeriod = 5 * time.Minute

// Recorder receives drop notifications. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordRateLimiterDrop(limiter string)
}

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	// Name labels drops in metrics, e.g. "user".
	Name string

	Burst      float64
	RefillRate float64 // tokens per second

	CleanupPeriod time.Duration
	Recorder      Recorder
}

// KeyedLimiter keeps one token bucket per key, typically the Messenger
// sender ID. Buckets that refill completely are removed by a background loop.
type KeyedLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*Limiter
	cfg      KeyedConfig
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter starts the cleanup loop. Call Stop to end it.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCleanupPeriod
	}
	kl := &KeyedLimiter{
		buckets: make(map[string]*Limiter),
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// Allow consumes a token from key's bucket. An empty key is always allowed.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	if kl.bucket(key).Allow() {
		return true
	}
	if kl.cfg.Recorder != nil {
		kl.cfg.Recorder.RecordRateLimiterDrop(kl.cfg.Name)
	}
	return false
}

func (kl *KeyedLimiter) bucket(key string) *Limiter {
	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if ok {
		return b
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if b, ok = kl.buckets[key]; ok {
		return b
	}
	b = New(kl.cfg.Burst, kl.cfg.RefillRate)
	kl.buckets[key] = b
	return b
}

// Available returns key's token count, or the burst size for unseen keys.
func (kl *KeyedLimiter) Available(key string) float64 {
	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if !ok {
		return max(kl.cfg.Burst, 1)
	}
	return b.Available()
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.buckets)
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.cleanup()
		}
	}
}

func (kl *KeyedLimiter) cleanup() {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, b := range kl.buckets {
		if b.IsFull() {
			delete(kl.buckets, key)
		}
	}
}

// Stop ends the cleanup loop. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stopCh) })
}
