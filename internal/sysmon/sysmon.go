// Package sysmon samples host and process resource usage for the server's
// health endpoint.
package sysmon

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64   `json:"cpu_percent"` // host, 0.0 .. 100.0
	MemPercent float64   `json:"mem_percent"` // host, 0.0 .. 100.0
	Goroutines int       `json:"goroutines"`
	HeapBytes  uint64    `json:"heap_bytes"`
	SampledAt  time.Time `json:"sampled_at"`
}

// Sample collects a snapshot. Host CPU uses interval=0 (delta since the
// last call). Host figures are zero when the platform cannot report them.
func Sample() Stats {
	s := Stats{Goroutines: runtime.NumGoroutine(), SampledAt: time.Now()}
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapBytes = ms.HeapAlloc
	return s
}

// Sampler returns the last sample until it is older than its TTL.
type Sampler struct {
	ttl    time.Duration
	sample func() Stats

	mu   sync.Mutex
	last Stats
}

// NewSampler returns a sampler caching samples for ttl.
func NewSampler(ttl time.Duration) *Sampler {
	return &Sampler{ttl: ttl, sample: Sample}
}

// Get returns a sample no older than the TTL.
func (s *Sampler) Get() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last.SampledAt.IsZero() || time.Since(s.last.SampledAt) >= s.ttl {
		s.last = s.sample()
	}
	return s.last
}
