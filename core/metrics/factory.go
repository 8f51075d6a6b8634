package metrics

import "github.com/Raptacon/Robot-2020/core/factory"

// NewRegistry returns an empty sink registry. infra/metrics registers the
// built-in sinks on it.
func NewRegistry() *factory.Registry[Sink] {
	return factory.NewRegistry[Sink]()
}

// NewSink creates the configured sinks. No configuration yields a NopSink
// and several yield a MultiSink.
func NewSink(reg *factory.Registry[Sink], cfgs []factory.ModuleConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return reg.Create(cfgs[0])
	}
	sinks := make([]Sink, len(cfgs))
	for i, c := range cfgs {
		s, err := reg.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
