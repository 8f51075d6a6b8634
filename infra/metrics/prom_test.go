package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
)

func TestPromSink_RecordBoot(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, sink.RecordBoot(coremetrics.BootReport{
		Variant:     "doof",
		Collections: map[string]int{"motors_driveTrain": 4},
		Active:      []string{"drive"},
		Disabled:    []string{"winch"},
	}))

	expected := `
# HELP robot_collection_items Objects built per collection
# TYPE robot_collection_items gauge
robot_collection_items{collection="motors_driveTrain"} 4
`
	assert.NoError(t, testutil.CollectAndCompare(sink.collections, strings.NewReader(expected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.boots.WithLabelValues("doof")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.components.WithLabelValues("drive")))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.components.WithLabelValues("winch")))
}

func TestPromSink_RebootReplacesGauges(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, sink.RecordBoot(coremetrics.BootReport{Variant: "doof", Collections: map[string]int{"a_b": 1}}))
	require.NoError(t, sink.RecordBoot(coremetrics.BootReport{Variant: "minibot", Collections: map[string]int{"c_d": 2}}))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.collections))
}

func TestPromSink_RecordTick(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, sink.RecordTick(coremetrics.TickSample{Variant: "doof", Duration: 3 * time.Millisecond}))
	require.NoError(t, sink.RecordTick(coremetrics.TickSample{Variant: "doof", Duration: 30 * time.Millisecond, Overrun: true}))

	assert.Equal(t, 1, testutil.CollectAndCount(sink.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.overruns.WithLabelValues("doof")))
}

// A second sink on the same registerer reuses the first one's collectors.
func TestPromSink_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	assert.Same(t, first.boots, second.boots)
}
