// Package aggregator computes live metrics over the parsed entry stream.
package aggregator

import (
	"context"
	"sync"
	"time"

	"skein/internal/model"
)

const epsWindow = 5 * time.Second

// Stats is a point-in-time snapshot of the pipeline metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalEvents  int64            `json:"total_events"`
	EPS          float64          `json:"eps"`
	LevelCounts  map[string]int64 `json:"level_counts"`
	UnknownRate  float64          `json:"unknown_rate"`
	PeakSeverity *int             `json:"peak_severity,omitempty"`
	DroppedLogs  int64            `json:"dropped_logs"`
	FilesWatched int              `json:"files_watched"`
}

// Aggregator subscribes to the hub and keeps level counts, the share of
// lines that failed to parse, the highest error severity seen, and a
// sliding-window events-per-second figure.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	levelCounts map[string]int64
	peak        *int
	window      []time.Time
	dropped     func() int64
	fileCount   func() int
	entries     <-chan model.Entry
}

// New creates an Aggregator over the given subscriber channel. droppedFn and
// fileCountFn supply live values from the hub and the watcher.
func New(entries <-chan model.Entry, droppedFn func() int64, fileCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		levelCounts: make(map[string]int64),
		dropped:     droppedFn,
		fileCount:   fileCountFn,
		entries:     entries,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}

	now := time.Now()
	cutoff := now.Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	var unknownRate float64
	if a.totalEvents > 0 {
		unknownRate = float64(a.levelCounts["Unknown"]) / float64(a.totalEvents)
	}

	var peak *int
	if a.peak != nil {
		p := *a.peak
		peak = &p
	}

	return Stats{
		Uptime:       time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:  a.totalEvents,
		EPS:          float64(recent) / epsWindow.Seconds(),
		LevelCounts:  counts,
		UnknownRate:  unknownRate,
		PeakSeverity: peak,
		DroppedLogs:  a.dropped(),
		FilesWatched: a.fileCount(),
	}
}

// Start consumes entries and updates metrics until the context is cancelled.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-a.entries:
			if !ok {
				return
			}
			a.record(entry)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(entry model.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.levelCounts[model.LevelName(entry.Message)]++
	a.window = append(a.window, time.Now())

	if known, ok := entry.Message.(model.Known); ok {
		if err, ok := known.Level.(model.Error); ok {
			if a.peak == nil || err.Severity > *a.peak {
				sev := err.Severity
				a.peak = &sev
			}
		}
	}
}

// prune drops window timestamps that fell out of the EPS window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-epsWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
