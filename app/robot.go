package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Raptacon/Robot-2020/core/build"
	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/hardware"
	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
	"github.com/Raptacon/Robot-2020/infra/logger"
	"github.com/Raptacon/Robot-2020/infra/metrics"
	"github.com/Raptacon/Robot-2020/infra/mqtt"
	"github.com/Raptacon/Robot-2020/internal/eventbus"
)

// Robot is a booted robot ready to run.
type Robot struct {
	Variant     string
	Collections build.Collections
	Components  *component.Result
	Report      coremetrics.BootReport

	tick     time.Duration
	listen   string
	gatherer prometheus.Gatherer
	sink     coremetrics.Sink
	pub      mqtt.BootPublisher
	bus      *eventbus.TypedBus[coremetrics.BootReport]
	log      logger.Logger

	ticks     atomic.Uint64
	overruns  atomic.Uint64
	closeOnce sync.Once
}

// Ticks returns how many loop iterations completed.
func (r *Robot) Ticks() uint64 { return r.ticks.Load() }

// Overruns returns how many iterations exceeded the tick period.
func (r *Robot) Overruns() uint64 { return r.overruns.Load() }

// Run publishes the boot report, starts the hardware, runs Setup and
// OnEnable on every component and then calls Execute once per tick until
// ctx is done. A Setup failure stops the run. Run closes the robot on
// return.
func (r *Robot) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		r.Close()
	}()

	if r.listen != "" && r.gatherer != nil {
		go func() {
			if err := metrics.StartPromServer(ctx, r.listen, r.gatherer); err != nil {
				r.log.Errorf("prom server: %v", err)
			}
		}()
	}
	// Report subscribers outlive ctx; Close drains them through the bus.
	drain := context.WithoutCancel(ctx)
	metrics.StartBootCollector(drain, r.bus, r.sink)
	mqtt.StartBootForwarder(drain, r.bus, r.pub)
	r.bus.Publish(r.Report)

	r.startHardware(ctx)

	hooks := r.Components.Components()
	for i, h := range hooks {
		if err := h.Setup(); err != nil {
			return fmt.Errorf("setup %s: %w", r.Components.Entries[i].Name, err)
		}
	}
	for _, h := range hooks {
		h.OnEnable()
	}
	r.log.Infof("Running %s every %s", r.Variant, r.tick)

	t := time.NewTicker(r.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Infof("Stopped %s after %d tick(s), %d overrun(s)", r.Variant, r.Ticks(), r.Overruns())
			return nil
		case now := <-t.C:
			r.step(hooks, now)
		}
	}
}

func (r *Robot) step(hooks []component.Component, start time.Time) {
	for _, h := range hooks {
		h.Execute()
	}
	d := time.Since(start)
	sample := coremetrics.TickSample{
		Variant:  r.Variant,
		Seq:      r.ticks.Add(1),
		Duration: d,
		Overrun:  d > r.tick,
		Time:     start,
	}
	if sample.Overrun {
		r.overruns.Add(1)
		r.log.Debugw("tick overrun", map[string]any{"seq": sample.Seq, "duration": d.String()})
	}
	if err := r.sink.RecordTick(sample); err != nil {
		r.log.Debugf("record tick %d: %v", sample.Seq, err)
	}
}

func (r *Robot) startHardware(ctx context.Context) {
	for _, key := range r.Collections.Keys() {
		for name, obj := range r.Collections[key] {
			if s, ok := obj.(hardware.Starter); ok {
				s.Start(ctx)
				r.log.Debugf("Started %s/%s", key, name)
			}
		}
	}
}

// Close stops the hardware, drains the report subscribers and releases the
// sinks. It is safe to call more than once.
func (r *Robot) Close() {
	r.closeOnce.Do(func() {
		r.bus.Close()
		r.bus.Wait()
		r.Collections.Close()
		if c, ok := r.sink.(coremetrics.Closer); ok {
			c.Close()
		}
		if d, ok := r.pub.(interface{ Disconnect() }); ok {
			d.Disconnect()
		}
	})
}
