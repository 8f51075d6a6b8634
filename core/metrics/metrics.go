package metrics

import "time"

// BootReport summarizes one successful boot.
type BootReport struct {
	BootID  string `json:"boot_id"`
	Variant string `json:"variant"`
	// Collections maps compound keys to their item counts.
	Collections map[string]int `json:"collections"`
	Active      []string       `json:"active"`
	Disabled    []string       `json:"disabled"`
	Duration    time.Duration  `json:"duration_ns"`
	Time        time.Time      `json:"time"`
}

// Items returns the number of built objects.
func (r BootReport) Items() int {
	n := 0
	for _, c := range r.Collections {
		n += c
	}
	return n
}

// TickSample is the timing of one control loop iteration.
type TickSample struct {
	Variant  string
	Seq      uint64
	Duration time.Duration
	// Overrun is set when the iteration took longer than the tick period.
	Overrun bool
	Time    time.Time
}

// Sink records robot metrics.
type Sink interface {
	RecordBoot(BootReport) error
	RecordTick(TickSample) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordBoot(BootReport) error { return nil }
func (NopSink) RecordTick(TickSample) error { return nil }
