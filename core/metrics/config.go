package metrics

import "github.com/Raptacon/Robot-2020/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Listen is the Prometheus HTTP address; empty disables the endpoint.
	Listen string `json:"listen"`
}
