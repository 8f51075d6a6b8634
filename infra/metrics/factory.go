package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Raptacon/Robot-2020/core/factory"
	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
)

// RegisterBuiltins adds the nop, prometheus and influx sinks to reg.
func RegisterBuiltins(reg *factory.Registry[coremetrics.Sink], promReg prometheus.Registerer) error {
	builtins := []factory.Registration[coremetrics.Sink]{
		{
			Name: "nop",
			New: func(factory.Args[coremetrics.Sink]) (coremetrics.Sink, error) {
				return coremetrics.NopSink{}, nil
			},
		},
		{
			Name: "prometheus",
			New: func(factory.Args[coremetrics.Sink]) (coremetrics.Sink, error) {
				s, err := NewPromSinkWithRegistry(promReg)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		},
		{
			Name:     "influx",
			Required: []string{"url", "bucket"},
			New: func(a factory.Args[coremetrics.Sink]) (coremetrics.Sink, error) {
				var c InfluxConfig
				if err := factory.Decode(a.Desc, &c); err != nil {
					return nil, err
				}
				return NewInfluxSinkWithFallback(c), nil
			},
		},
	}
	for _, b := range builtins {
		if err := reg.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// NewSinkRegistry returns a registry holding the built-in sinks. Prometheus
// metrics go to promReg, or to the default registerer when it is nil.
func NewSinkRegistry(promReg prometheus.Registerer) (*factory.Registry[coremetrics.Sink], error) {
	if promReg == nil {
		promReg = prometheus.DefaultRegisterer
	}
	reg := coremetrics.NewRegistry()
	if err := RegisterBuiltins(reg, promReg); err != nil {
		return nil, err
	}
	return reg, nil
}
