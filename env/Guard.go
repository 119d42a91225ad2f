package env

import (
	"context"
	"log"
	"sync"
	"time"
)

type GuardBucket string

const (
	GUARD_VIDEO GuardBucket = "video"
	GUARD_GIF   GuardBucket = "gif"
	GUARD_IMAGE GuardBucket = "image"
	GUARD_PROXY GuardBucket = "proxy"
)

type GuardQuota struct {
	Requests int           // Requests Allowed per Window
	Window   time.Duration // Window Duration
}

// Load shedding for expensive encode work, nothing here queues: a request
// either gets a slot right away or is told to come back later.
type Guard struct {
	mtx      sync.Mutex
	quotas   map[GuardBucket]GuardQuota
	history  map[string][]time.Time
	heavy    int
	heavyMax int
}

func NewGuard(heavyMax int) *Guard {
	return &Guard{
		heavyMax: heavyMax,
		history:  make(map[string][]time.Time),
		quotas: map[GuardBucket]GuardQuota{
			GUARD_VIDEO: {Requests: 5, Window: 5 * time.Minute},
			GUARD_GIF:   {Requests: 10, Window: 5 * time.Minute},
			GUARD_IMAGE: {Requests: 30, Window: time.Minute},
			GUARD_PROXY: {Requests: 60, Window: time.Minute},
		},
	}
}

// Shared instance used by the route handlers
var Jobs = NewGuard(HEAVY_JOBS_MAX)

func (g *Guard) SetQuota(bucket GuardBucket, requests int, window time.Duration) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.quotas[bucket] = GuardQuota{Requests: requests, Window: window}
}

// Admit one request from an address into a bucket. Rejections return how long
// the caller should wait before the oldest counted request leaves the window.
func (g *Guard) Allow(bucket GuardBucket, address string) (bool, time.Duration) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	quota, exists := g.quotas[bucket]
	if !exists {
		return false, time.Minute
	}

	// Drop Entries Outside the Sliding Window
	key := string(bucket) + "/" + address
	now := time.Now()
	kept := g.history[key][:0]
	for _, t := range g.history[key] {
		if now.Sub(t) < quota.Window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= quota.Requests {
		g.history[key] = kept
		retryAfter := quota.Window - now.Sub(kept[0])
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}
	g.history[key] = append(kept, now)
	return true, 0
}

// Claim a slot for a Video/GIF encode, callers must ReleaseHeavy when done
func (g *Guard) AcquireHeavy() bool {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.heavy >= g.heavyMax {
		return false
	}
	g.heavy++
	return true
}

func (g *Guard) ReleaseHeavy() {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.heavy > 0 {
		g.heavy--
	}
}

func (g *Guard) HeavyInFlight() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.heavy
}

// Periodically drop stale per-address counters to bound memory
func (g *Guard) Sweep(stop context.Context, await *sync.WaitGroup) {
	await.Add(1)
	go func() {
		defer await.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop.Done():
				log.Println("[guard] Cleaned up Guard")
				return
			case <-ticker.C:
				g.sweepOnce(time.Now())
			}
		}
	}()
}

func (g *Guard) sweepOnce(now time.Time) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	longest := time.Duration(0)
	for _, quota := range g.quotas {
		if quota.Window > longest {
			longest = quota.Window
		}
	}
	for key, hits := range g.history {
		if len(hits) == 0 || now.Sub(hits[len(hits)-1]) > longest {
			delete(g.history, key)
		}
	}
}
