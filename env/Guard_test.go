package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardBucketQuota(t *testing.T) {
	g := NewGuard(4)
	g.SetQuota(GUARD_IMAGE, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := g.Allow(GUARD_IMAGE, "10.0.0.1")
		require.True(t, ok, "request %d inside quota", i+1)
	}

	ok, retryAfter := g.Allow(GUARD_IMAGE, "10.0.0.1")
	assert.False(t, ok, "request over quota is rejected")
	assert.Greater(t, retryAfter, time.Duration(0), "rejection carries a retry hint")

	// Other addresses and buckets are unaffected
	ok, _ = g.Allow(GUARD_IMAGE, "10.0.0.2")
	assert.True(t, ok)
	ok, _ = g.Allow(GUARD_GIF, "10.0.0.1")
	assert.True(t, ok)
}

func TestGuardWindowSlides(t *testing.T) {
	g := NewGuard(4)
	g.SetQuota(GUARD_PROXY, 2, 60*time.Millisecond)

	ok, _ := g.Allow(GUARD_PROXY, "10.0.0.1")
	require.True(t, ok)
	ok, _ = g.Allow(GUARD_PROXY, "10.0.0.1")
	require.True(t, ok)
	ok, _ = g.Allow(GUARD_PROXY, "10.0.0.1")
	require.False(t, ok)

	time.Sleep(80 * time.Millisecond)
	ok, _ = g.Allow(GUARD_PROXY, "10.0.0.1")
	assert.True(t, ok, "counter resets once the window elapses")
}

func TestGuardUnknownBucket(t *testing.T) {
	g := NewGuard(4)
	ok, _ := g.Allow(GuardBucket("nonsense"), "10.0.0.1")
	assert.False(t, ok)
}

func TestGuardHeavySlots(t *testing.T) {
	g := NewGuard(2)
	require.True(t, g.AcquireHeavy())
	require.True(t, g.AcquireHeavy())
	assert.False(t, g.AcquireHeavy(), "ceiling reached, shed instead of queueing")
	assert.Equal(t, 2, g.HeavyInFlight())

	g.ReleaseHeavy()
	assert.True(t, g.AcquireHeavy(), "slot freed by release")

	// Release never goes negative
	g.ReleaseHeavy()
	g.ReleaseHeavy()
	g.ReleaseHeavy()
	assert.Equal(t, 0, g.HeavyInFlight())
}

func TestGuardSweepDropsStaleCounters(t *testing.T) {
	g := NewGuard(4)
	g.Allow(GUARD_IMAGE, "10.0.0.1")
	g.Allow(GUARD_VIDEO, "10.0.0.2")

	g.sweepOnce(time.Now().Add(10 * time.Minute))

	g.mtx.Lock()
	defer g.mtx.Unlock()
	assert.Empty(t, g.history, "stale counters are swept")
}
