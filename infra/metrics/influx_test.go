package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
)

type bodies struct {
	mu  sync.Mutex
	all []string
}

func (b *bodies) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.all = append(b.all, strings.TrimSpace(string(data)))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *bodies) get() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.all...)
}

func line(p *write.Point) string {
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordBoot(t *testing.T) {
	got := &bodies{}
	srv := httptest.NewServer(got.handler())
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	rep := coremetrics.BootReport{
		BootID:      "b1",
		Variant:     "doof",
		Collections: map[string]int{"motors_shooter": 2, "motors_driveTrain": 4},
		Active:      []string{"drive"},
		Disabled:    []string{"winch"},
		Duration:    1500 * time.Microsecond,
		Time:        now,
	}
	require.NoError(t, sink.RecordBoot(rep))

	boot := write.NewPointWithMeasurement("robot_boot").
		AddTag("variant", "doof").
		AddTag("boot_id", "b1").
		AddField("items", 6).
		AddField("collections", 2).
		AddField("active", 1).
		AddField("disabled", 1).
		AddField("duration_ms", 1.5).
		SetTime(now)
	drive := write.NewPointWithMeasurement("robot_collection").
		AddTag("variant", "doof").
		AddTag("collection", "motors_driveTrain").
		AddField("items", 4).
		SetTime(now)
	shooter := write.NewPointWithMeasurement("robot_collection").
		AddTag("variant", "doof").
		AddTag("collection", "motors_shooter").
		AddField("items", 2).
		SetTime(now)
	assert.Equal(t, []string{line(boot), line(drive), line(shooter)}, got.get())
}

func TestInfluxSink_TicksFlushOnClose(t *testing.T) {
	got := &bodies{}
	srv := httptest.NewServer(got.handler())
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	now := time.Now()
	require.NoError(t, sink.RecordTick(coremetrics.TickSample{Variant: "doof", Seq: 7, Duration: 2 * time.Millisecond, Time: now}))
	sink.Close()

	p := write.NewPointWithMeasurement("robot_tick").
		AddTag("variant", "doof").
		AddField("seq", int64(7)).
		AddField("duration_ms", 2.0).
		AddField("overrun", false).
		SetTime(now)
	require.Len(t, got.get(), 1)
	assert.Equal(t, line(p), got.get()[0])
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	assert.IsType(t, coremetrics.NopSink{}, sink)
	assert.True(t, called, "health endpoint not called")
}
