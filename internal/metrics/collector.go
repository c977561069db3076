// Package metrics aggregates in-process counters for the Focal service.
package metrics

import (
	"sync"
	"time"
)

// OperationStats holds counters for one API operation.
type OperationStats struct {
	Count          int64 `json:"count"`
	Errors         int64 `json:"errors"`
	TotalLatencyMs int64 `json:"totalLatencyMs"`
	MaxLatencyMs   int64 `json:"maxLatencyMs"`
}

// Snapshot is a point-in-time copy of all collected metrics.
type Snapshot struct {
	StartTime       time.Time                 `json:"startTime"`
	UptimeSec       int64                     `json:"uptimeSec"`
	Operations      map[string]OperationStats `json:"operations"`
	WarningsByLevel map[string]int64          `json:"warningsByLevel"`
}

// Collector aggregates request and warning counters. All methods are safe
// for concurrent use.
type Collector struct {
	mu              sync.RWMutex
	startTime       time.Time
	operations      map[string]*OperationStats
	warningsByLevel map[string]int64
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:       time.Now(),
		operations:      make(map[string]*OperationStats),
		warningsByLevel: make(map[string]int64),
	}
}

// RecordRequest records one completed request for an operation.
func (c *Collector) RecordRequest(operation string, latency time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.operations[operation]
	if !ok {
		stats = &OperationStats{}
		c.operations[operation] = stats
	}

	stats.Count++
	if failed {
		stats.Errors++
	}
	ms := latency.Milliseconds()
	stats.TotalLatencyMs += ms
	if ms > stats.MaxLatencyMs {
		stats.MaxLatencyMs = ms
	}
}

// RecordWarnings bumps the per-level warning counters.
func (c *Collector) RecordWarnings(levels []string) {
	if len(levels) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, level := range levels {
		c.warningsByLevel[level]++
	}
}

// GetSnapshot returns a copy of current metrics.
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		StartTime:       c.startTime,
		UptimeSec:       int64(time.Since(c.startTime).Seconds()),
		Operations:      make(map[string]OperationStats, len(c.operations)),
		WarningsByLevel: make(map[string]int64, len(c.warningsByLevel)),
	}
	for op, stats := range c.operations {
		snap.Operations[op] = *stats
	}
	for level, n := range c.warningsByLevel {
		snap.WarningsByLevel[level] = n
	}

	return snap
}

// Reset zeroes all counters and restarts the uptime clock.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.operations = make(map[string]*OperationStats)
	c.warningsByLevel = make(map[string]int64)
}
