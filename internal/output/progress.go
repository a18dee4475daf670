package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Progress tracks and displays batch progress on a terminal.
type Progress struct {
	w         io.Writer
	total     int
	completed atomic.Int64
	failures  atomic.Int64
	filtered  atomic.Int64
	errors    atomic.Int64
	start     time.Time
	done      chan struct{}
	stopped   chan struct{}
	enabled   bool
	mu        sync.Mutex
}

// NewProgress creates a progress tracker writing to w. A disabled tracker
// still counts but never prints. Call Start() to begin display updates.
func NewProgress(w io.Writer, total int, enabled bool) *Progress {
	return &Progress{
		w:       w,
		total:   total,
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		enabled: enabled,
	}
}

// Start begins periodically redrawing the progress line.
func (p *Progress) Start() {
	if !p.enabled {
		close(p.stopped)
		return
	}
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Redraw()
			case <-p.done:
				p.Redraw()
				p.mu.Lock()
				fmt.Fprint(p.w, "\n")
				p.mu.Unlock()
				return
			}
		}
	}()
}

// Increment records a processed log file.
func (p *Progress) Increment() { p.completed.Add(1) }

// IncrementFailures records a log that held a WhatWeb error line.
func (p *Progress) IncrementFailures() { p.failures.Add(1) }

// IncrementFiltered records a row dropped by the status filter.
func (p *Progress) IncrementFiltered() { p.filtered.Add(1) }

// IncrementErrors records a log that could not be read.
func (p *Progress) IncrementErrors() { p.errors.Add(1) }

// Printf writes a message above the progress line.
func (p *Progress) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		fmt.Fprint(p.w, "\r\033[K")
	}
	fmt.Fprintf(p.w, format, args...)
}

// Stop ends the progress display and waits for the final redraw.
func (p *Progress) Stop() {
	close(p.done)
	<-p.stopped
}

// Redraw prints the current progress line.
func (p *Progress) Redraw() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	completed := p.completed.Load()
	pct := float64(0)
	if p.total > 0 {
		pct = float64(completed) / float64(p.total) * 100
	}
	fmt.Fprintf(p.w, "\r\033[K[%3.0f%%] %d/%d logs | Failed: %d | Filtered: %d | Errors: %d | %s",
		pct, completed, p.total,
		p.failures.Load(), p.filtered.Load(), p.errors.Load(),
		time.Since(p.start).Round(time.Millisecond))
}
