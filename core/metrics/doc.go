// Package metrics defines the sinks that record boot reports and control
// loop ticks. NewSink builds the configured sinks through a factory
// registry and fans out to several of them with a MultiSink. Concrete sinks
// (Prometheus, InfluxDB) live in infra/metrics.
package metrics
