package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-addons/common"
)

// Stats is one profiler sample covering the frames since the previous sample.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64 // MB allocated per second over the sample
	SysMB       float64
	NumGC       uint32
	LastPause   time.Duration
	MaxPause    time.Duration // longest GC pause within the sample
}

// Profiler tracks frame rate and memory statistics of the host loop.
// A sample is taken and logged every interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	logger         *slog.Logger
	level          slog.Level
	now            func() time.Time
}

// NewProfiler creates a Profiler. The interval defaults to one second and samples are logged at Debug.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		logger:         common.Logger(),
		level:          slog.LevelDebug,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick counts one frame and takes a sample once the interval has elapsed.
//
// Returns:
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:       p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Log(context.Background(), p.level, "profiler",
		"fps", s.FPS,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.NumGC,
		"gc_last", s.LastPause,
		"gc_max", s.MaxPause,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample, or the zero Stats before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}
