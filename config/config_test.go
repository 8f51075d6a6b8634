package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raptacon/Robot-2020/core/component"
	"github.com/Raptacon/Robot-2020/core/variant"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `robot:
  config_dir: "configs"
  index: "robots.yml"
  marker: "/tmp/RobotConfig"
  tick_ms: 10
components:
  missing_compatibility: deny
metrics:
  listen: ":9100"
  sinks:
    - type: "nop"
    - type: "influx"
      conf:
        url: "http://influx:8086"
        bucket: "robot"
mqtt:
  broker: "tcp://localhost:1883"
  topic_prefix: "raptacon"
  qos: 1
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"config_dir", cfg.Robot.ConfigDir, "configs"},
		{"marker", cfg.Robot.Marker, "/tmp/RobotConfig"},
		{"tick", cfg.Robot.Tick(), 10 * time.Millisecond},
		{"input default", cfg.Robot.InputInterval(), 20 * time.Millisecond},
		{"default variant", cfg.Robot.DefaultVariant, variant.Default},
		{"listen", cfg.Metrics.Listen, ":9100"},
		{"sinks", len(cfg.Metrics.Sinks), 2},
		{"influx bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "robot"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"prefix", cfg.MQTT.TopicPrefix, "raptacon"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	p, err := cfg.Components.Policy()
	require.NoError(t, err)
	assert.Equal(t, component.Deny, p)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"robot": {"index": "profiles.json"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "profiles.json", cfg.Robot.Index)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "robotConfigs", cfg.Robot.ConfigDir)
	assert.Equal(t, "robots.yml", cfg.Robot.Index)
	assert.Equal(t, variant.DefaultMarker, cfg.Robot.Marker)
	assert.Equal(t, 20*time.Millisecond, cfg.Robot.Tick())
	assert.Equal(t, "permit", cfg.Components.MissingCompatibility)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "robot", cfg.MQTT.TopicPrefix)
	assert.False(t, cfg.MQTT.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ROBOT_LOGGING__LEVEL", "warn")
	t.Setenv("ROBOT_ROBOT__TICK_MS", "40")
	path := writeConfig(t, "config.yaml", "logging:\n  level: debug\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 40*time.Millisecond, cfg.Robot.Tick())
}

func TestLoad_Rejections(t *testing.T) {
	cases := map[string]string{
		"bad level":  "logging:\n  level: loud\n",
		"bad policy": "components:\n  missing_compatibility: sometimes\n",
		"bad qos":    "mqtt:\n  qos: 3\n",
		"slow tick":  "robot:\n  tick_ms: 5000\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "config.toml", ""))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
