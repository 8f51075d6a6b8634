// Package input samples human-input devices in the background.
//
// A Sampler owns one goroutine that periodically reads an AxisSource and
// publishes an immutable Snapshot. The control loop reads the latest
// snapshot without blocking; it may be up to one interval stale.
package input

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultInterval gives a ~50 Hz refresh rate.
const DefaultInterval = 20 * time.Millisecond

// Axis identifies an analog input.
type Axis int

const (
	LeftX Axis = iota
	LeftY
	LeftTrigger
	RightTrigger
	RightX
	RightY
	axisCount
)

// AxisSource is the device driver boundary.
type AxisSource interface {
	RawAxis(a Axis) float64
	POV() int
}

// Snapshot is one sample of every axis. It is never mutated once published.
type Snapshot struct {
	LeftX, LeftY   float64
	RightX, RightY float64
	LeftTrigger    float64
	RightTrigger   float64
	POV            int
	Taken          time.Time
}

// Axis returns the sampled value of a.
func (s Snapshot) Axis(a Axis) float64 {
	switch a {
	case LeftX:
		return s.LeftX
	case LeftY:
		return s.LeftY
	case LeftTrigger:
		return s.LeftTrigger
	case RightTrigger:
		return s.RightTrigger
	case RightX:
		return s.RightX
	case RightY:
		return s.RightY
	}
	return 0
}

// Sampler refreshes a Snapshot from its source.
type Sampler struct {
	src      AxisSource
	interval time.Duration
	latest   atomic.Pointer[Snapshot]
	running  atomic.Bool
	samples  atomic.Uint64
}

// NewSampler returns a Sampler for src. A non-positive interval uses
// DefaultInterval. The initial snapshot is all zeros so readers never see nil.
func NewSampler(src AxisSource, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if src == nil {
		src = Idle{}
	}
	s := &Sampler{src: src, interval: interval}
	s.latest.Store(&Snapshot{})
	return s
}

// Snapshot returns the latest sample.
func (s *Sampler) Snapshot() Snapshot { return *s.latest.Load() }

// Samples returns how many refreshes happened so far.
func (s *Sampler) Samples() uint64 { return s.samples.Load() }

// Interval returns the refresh interval.
func (s *Sampler) Interval() time.Duration { return s.interval }

// Start launches the refresh goroutine. It stops when ctx is cancelled.
// Starting an already running sampler is a no-op.
func (s *Sampler) Start(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.running.Store(false)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.refresh()
			}
		}
	}()
}

// Running reports whether the refresh goroutine is active.
func (s *Sampler) Running() bool { return s.running.Load() }

func (s *Sampler) refresh() {
	snap := &Snapshot{
		LeftX:        s.src.RawAxis(LeftX),
		LeftY:        s.src.RawAxis(LeftY),
		RightX:       s.src.RawAxis(RightX),
		RightY:       s.src.RawAxis(RightY),
		LeftTrigger:  s.src.RawAxis(LeftTrigger),
		RightTrigger: s.src.RawAxis(RightTrigger),
		POV:          s.src.POV(),
		Taken:        time.Now(),
	}
	s.latest.Store(snap)
	s.samples.Add(1)
}

// Idle is an AxisSource reporting a centred, untouched device.
type Idle struct{}

func (Idle) RawAxis(Axis) float64 { return 0 }
func (Idle) POV() int             { return -1 }
