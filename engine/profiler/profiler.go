package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats is the most recent measurement taken by a Profiler.
type Stats struct {
	TicksPerSecond float64   `json:"tps"`
	HeapMB         float64   `json:"heap_mb"`
	AllocRateMB    float64   `json:"alloc_rate_mb"`
	GCCount        uint32    `json:"gc_count"`
	LastPauseUs    uint64    `json:"gc_last_pause_us"`
	MaxPauseUs     uint64    `json:"gc_max_pause_us"`
	SysMB          float64   `json:"sys_mb"`
	Goroutines     int       `json:"goroutines"`
	MeasuredAt     time.Time `json:"measured_at"`
}

// Profiler tracks the engine tick rate and memory statistics.
// A measurement is taken every update interval; it can be logged and is always kept
// as the latest Stats for other goroutines (such as the pose server) to read.
type Profiler struct {
	mu *sync.RWMutex

	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	logging bool
	stats   Stats
}

// NewProfiler creates a new Profiler that measures once per second and logs each measurement.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		mu:             &sync.RWMutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logging:        true,
	}
}

// SetInterval changes how often a measurement is taken. Values <= 0 are ignored.
//
// Parameters:
//   - interval: the time between measurements
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateInterval = interval
}

// SetLogging toggles writing each measurement to the log.
//
// Parameters:
//   - enabled: true to log measurements
func (p *Profiler) SetLogging(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logging = enabled
}

// Tick should be called once per engine tick.
// Takes a measurement when the update interval has elapsed.
//
// Returns:
//   - bool: true if a measurement was taken this tick
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tickCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.stats = Stats{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        gcCount,
		LastPauseUs:    lastPauseUs,
		MaxPauseUs:     maxPauseUs,
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
		Goroutines:     runtime.NumGoroutine(),
		MeasuredAt:     now,
	}

	if p.logging {
		s := p.stats
		log.Printf("[Profiler] TPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB | Goroutines: %d",
			s.TicksPerSecond, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB, s.Goroutines)
	}

	p.tickCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Stats returns the latest measurement. It is the zero value until the first interval elapses.
//
// Returns:
//   - Stats: the latest measurement
func (p *Profiler) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}
