package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
)

// PromSink exposes boot and tick metrics to Prometheus.
type PromSink struct {
	boots       *prometheus.CounterVec
	collections *prometheus.GaugeVec
	components  *prometheus.GaugeVec
	ticks       *prometheus.HistogramVec
	overruns    *prometheus.CounterVec
}

// NewPromSink registers robot metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	boots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robot_boots_total",
		Help: "Completed boots per variant",
	}, []string{"variant"})
	collections := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "robot_collection_items",
		Help: "Objects built per collection",
	}, []string{"collection"})
	components := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "robot_component_active",
		Help: "1 when the component runs for the current variant, 0 when disabled",
	}, []string{"component"})
	ticks := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "robot_tick_duration_seconds",
		Help:    "Control loop iteration time",
		Buckets: []float64{.001, .0025, .005, .01, .02, .04, .1},
	}, []string{"variant"})
	overruns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robot_tick_overruns_total",
		Help: "Iterations that exceeded the tick period",
	}, []string{"variant"})

	var err error
	if boots, err = register(reg, boots); err != nil {
		return nil, err
	}
	if collections, err = register(reg, collections); err != nil {
		return nil, err
	}
	if components, err = register(reg, components); err != nil {
		return nil, err
	}
	if ticks, err = register(reg, ticks); err != nil {
		return nil, err
	}
	if overruns, err = register(reg, overruns); err != nil {
		return nil, err
	}
	return &PromSink{boots: boots, collections: collections, components: components, ticks: ticks, overruns: overruns}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordBoot counts the boot and replaces the collection and component
// gauges with the new state.
func (s *PromSink) RecordBoot(r coremetrics.BootReport) error {
	s.boots.WithLabelValues(r.Variant).Inc()
	s.collections.Reset()
	for k, n := range r.Collections {
		s.collections.WithLabelValues(k).Set(float64(n))
	}
	s.components.Reset()
	for _, c := range r.Active {
		s.components.WithLabelValues(c).Set(1)
	}
	for _, c := range r.Disabled {
		s.components.WithLabelValues(c).Set(0)
	}
	return nil
}

// RecordTick observes the iteration time.
func (s *PromSink) RecordTick(t coremetrics.TickSample) error {
	s.ticks.WithLabelValues(t.Variant).Observe(t.Duration.Seconds())
	if t.Overrun {
		s.overruns.WithLabelValues(t.Variant).Inc()
	}
	return nil
}
