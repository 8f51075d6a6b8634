package config

import (
	"fmt"
	"time"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/input"
	"github.com/Raptacon/Robot-2020/core/variant"
)

// RobotConfig locates manifests and tunes the control loop.
type RobotConfig struct {
	// ConfigDir holds the manifests.
	ConfigDir string `json:"config_dir"`
	// Index is the profile index naming every variant's manifest.
	Index string `json:"index"`
	// Marker is the file whose first line names the variant.
	Marker string `json:"marker"`
	// DefaultVariant applies when neither the marker nor the index decide.
	DefaultVariant string `json:"default_variant"`
	TickMS         int    `json:"tick_ms"`
	InputMS        int    `json:"input_ms"`
}

func (c *RobotConfig) SetDefaults() {
	if c.ConfigDir == "" {
		c.ConfigDir = "robotConfigs"
	}
	if c.Index == "" {
		c.Index = "robots.yml"
	}
	if c.Marker == "" {
		c.Marker = variant.DefaultMarker
	}
	if c.DefaultVariant == "" {
		c.DefaultVariant = variant.Default
	}
	if c.TickMS <= 0 {
		c.TickMS = 20
	}
	if c.InputMS <= 0 {
		c.InputMS = int(input.DefaultInterval / time.Millisecond)
	}
}

func (c RobotConfig) Validate() error {
	if c.TickMS > 1000 {
		return fmt.Errorf("robot.tick_ms %d exceeds one second", c.TickMS)
	}
	return nil
}

// Tick is the control loop period.
func (c RobotConfig) Tick() time.Duration { return time.Duration(c.TickMS) * time.Millisecond }

// InputInterval is the controller sampling period.
func (c RobotConfig) InputInterval() time.Duration { return time.Duration(c.InputMS) * time.Millisecond }

// ComponentsConfig tunes the compatibility filter.
type ComponentsConfig struct {
	// MissingCompatibility decides components declaring no variants:
	// "permit" (default) or "deny".
	MissingCompatibility string `json:"missing_compatibility"`
}

func (c *ComponentsConfig) SetDefaults() {
	if c.MissingCompatibility == "" {
		c.MissingCompatibility = component.Permit.String()
	}
}

func (c ComponentsConfig) Validate() error {
	_, err := c.Policy()
	return err
}

// Policy returns the parsed filter policy.
func (c ComponentsConfig) Policy() (component.Policy, error) {
	return component.ParsePolicy(c.MissingCompatibility)
}
