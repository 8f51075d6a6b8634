// Package infra holds the technical adapters: the zerolog logger, the
// Prometheus and InfluxDB sinks and the MQTT boot report publisher. They
// depend only on interfaces defined in the core packages.
package infra
