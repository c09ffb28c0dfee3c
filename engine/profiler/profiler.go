package profiler

import (
	"log"
	"runtime"
	"sort"
	"time"
)

// Profiler tracks frame timing and memory statistics for the render loop.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameTimes     []time.Duration
	lastFrame      time.Time
	lastReport     time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{
		frameTimes:     make([]time.Duration, 0, 512),
		lastFrame:      now,
		lastReport:     now,
		updateInterval: time.Second,
	}
}

// Tick should be called once per frame to record the frame time.
// Logs FPS, frame-time percentiles, and heap statistics when the update
// interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	now := time.Now()
	p.frameTimes = append(p.frameTimes, now.Sub(p.lastFrame))
	p.lastFrame = now

	elapsed := now.Sub(p.lastReport)
	if elapsed < p.updateInterval || len(p.frameTimes) == 0 {
		return false
	}

	fps := float64(len(p.frameTimes)) / elapsed.Seconds()
	avg, p50, p99 := frameTimeStats(p.frameTimes)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[Profiler] FPS: %.2f | Frame: avg %.2f ms, p50 %.2f ms, p99 %.2f ms | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		fps, millis(avg), millis(p50), millis(p99), allocMB, allocRateMB, p.memStats.NumGC)

	p.frameTimes = p.frameTimes[:0]
	p.lastReport = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// frameTimeStats computes the average, median, and 99th percentile of the
// recorded frame times. The input slice is sorted in place.
func frameTimeStats(times []time.Duration) (avg, p50, p99 time.Duration) {
	var total time.Duration
	for _, d := range times {
		total += d
	}
	avg = total / time.Duration(len(times))

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	p50 = times[len(times)/2]

	idx := (len(times)*99 + 99) / 100
	if idx >= len(times) {
		idx = len(times) - 1
	}
	p99 = times[idx]
	return avg, p50, p99
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
