package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickDoesNotReportBeforeInterval(t *testing.T) {
	p := NewProfiler()
	assert.False(t, p.Tick())
	assert.False(t, p.Tick())
}

func TestTickReportsAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.updateInterval = time.Millisecond

	p.Tick()
	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.Tick())

	// The window resets after a report.
	assert.False(t, p.Tick())
}

func TestFrameTimeStatsPercentiles(t *testing.T) {
	times := make([]time.Duration, 100)
	for i := range times {
		times[i] = time.Duration(i+1) * time.Millisecond
	}

	avg, p50, p99 := frameTimeStats(times)
	assert.Equal(t, 50500*time.Microsecond, avg)
	assert.Equal(t, 51*time.Millisecond, p50)
	assert.Equal(t, 100*time.Millisecond, p99)
}

func TestFrameTimeStatsSingleSample(t *testing.T) {
	avg, p50, p99 := frameTimeStats([]time.Duration{16 * time.Millisecond})
	assert.Equal(t, 16*time.Millisecond, avg)
	assert.Equal(t, 16*time.Millisecond, p50)
	assert.Equal(t, 16*time.Millisecond, p99)
}
