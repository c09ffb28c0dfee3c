package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickCallbackFiresAtConfiguredRate(t *testing.T) {
	e := NewEngine(WithTickRate(500)).(*engine)

	var ticks atomic.Int32
	e.SetTickCallback(func(deltaTime float32) {
		assert.Greater(t, deltaTime, float32(0))
		ticks.Add(1)
	})

	e.running.Store(true)
	e.handle()
	require.Eventually(t, func() bool {
		return ticks.Load() >= 3
	}, 2*time.Second, time.Millisecond)

	e.Quit()
	e.wg.Wait()
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()
}

func TestSetTickRateWhileRunning(t *testing.T) {
	e := NewEngine(WithTickRate(1)).(*engine)

	var ticks atomic.Int32
	e.SetTickCallback(func(float32) { ticks.Add(1) })

	e.running.Store(true)
	e.handle()

	// At 1Hz no tick lands quickly; raising the rate mid-run must take
	// effect through the rate channel.
	e.SetTickRate(500)
	require.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, 2*time.Second, time.Millisecond)

	e.Quit()
	e.wg.Wait()
}

func TestSetTickRateIsSafeDuringStartAndQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500)).(*engine)

	// SetTickRate reads the running flag from another goroutine while the
	// engine flips it on start and quit.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			e.SetTickRate(float64(100 + i))
		}
	}()

	e.running.Store(true)
	e.handle()
	<-done

	e.Quit()
	e.wg.Wait()
}

func TestRenderFrameLimitDefaultsToUncapped(t *testing.T) {
	e := NewEngine().(*engine)
	assert.Equal(t, time.Duration(0), e.renderFrameLimit)

	e.SetRenderFrameLimit(60)
	assert.Equal(t, time.Second/60, e.renderFrameLimit)

	e.SetRenderFrameLimit(0)
	assert.Equal(t, time.Duration(0), e.renderFrameLimit)
}
