package metrics

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBoot forwards to every sink, returning the first error encountered.
func (m *MultiSink) RecordBoot(r BootReport) error {
	for _, s := range m.Sinks {
		if err := s.RecordBoot(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick forwards to every sink, returning the first error encountered.
func (m *MultiSink) RecordTick(t TickSample) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(t); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			c.Close()
		}
	}
}
