package lineserver

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/distkv-go/pkg/cmap"
)

const (
	// bucketIdleTTL is how long an IP's bucket survives without commands.
	// Burst equals one second of refill, so any bucket idle this long is
	// full and dropping it changes no decision.
	bucketIdleTTL = time.Minute
	sweepInterval = 30 * time.Second
)

type bucket struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64
}

// rateLimiter hands out one token bucket per client IP.
type rateLimiter struct {
	limit   int
	buckets *cmap.Map[*bucket]

	stopOnce sync.Once
	done     chan struct{}
}

func newRateLimiter(commandsPerSecond int) *rateLimiter {
	return &rateLimiter{
		limit:   commandsPerSecond,
		buckets: cmap.New[*bucket](),
		done:    make(chan struct{}),
	}
}

// allow reports whether ip may run one more command now.
func (rl *rateLimiter) allow(ip string) bool {
	if rl == nil || rl.limit <= 0 {
		return true
	}
	b := rl.buckets.GetOrCreate(ip, func() *bucket {
		return &bucket{limiter: rate.NewLimiter(rate.Limit(rl.limit), rl.limit)}
	})
	b.lastUsed.Store(time.Now().UnixNano())
	return b.limiter.Allow()
}

// sweep drops buckets not used since cutoff and returns how many it dropped.
func (rl *rateLimiter) sweep(cutoff time.Time) int {
	var stale []string
	rl.buckets.Range(func(ip string, b *bucket) bool {
		if b.lastUsed.Load() < cutoff.UnixNano() {
			stale = append(stale, ip)
		}
		return true
	})
	for _, ip := range stale {
		rl.buckets.Delete(ip)
	}
	return len(stale)
}

// run sweeps idle buckets every interval until stop is called.
func (rl *rateLimiter) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.sweep(now.Add(-bucketIdleTTL))
		}
	}
}

// stop ends run and drops every bucket.
func (rl *rateLimiter) stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.done) })
	rl.buckets.Clear()
}

func (rl *rateLimiter) size() int {
	return rl.buckets.Count()
}
