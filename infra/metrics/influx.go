package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
	"github.com/Raptacon/Robot-2020/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes boot reports synchronously and ticks through the
// client's batching writer so the control loop never waits on the network.
type InfluxSink struct {
	client influxdb2.Client
	boots  api.WriteAPIBlocking
	ticks  api.WriteAPI
	log    logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().
			SetHTTPClient(&http.Client{Timeout: 5 * time.Second}).
			SetFlushInterval(1000))
	s := &InfluxSink{
		client: client,
		boots:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		ticks:  client.WriteAPI(cfg.Org, cfg.Bucket),
		log:    logger.New("influx-sink"),
	}
	errs := s.ticks.Errors()
	go func() {
		for err := range errs {
			s.log.Warnf("influx tick write: %v", err)
		}
	}()
	return s
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBoot writes one robot_boot point plus one robot_collection point per
// built collection.
func (s *InfluxSink) RecordBoot(r coremetrics.BootReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("robot_boot").
		AddTag("variant", r.Variant).
		AddTag("boot_id", r.BootID).
		AddField("items", r.Items()).
		AddField("collections", len(r.Collections)).
		AddField("active", len(r.Active)).
		AddField("disabled", len(r.Disabled)).
		AddField("duration_ms", round3(r.Duration.Seconds()*1000)).
		SetTime(r.Time)
	if err := s.boots.WritePoint(ctx, p); err != nil {
		return err
	}
	keys := make([]string, 0, len(r.Collections))
	for k := range r.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cp := write.NewPointWithMeasurement("robot_collection").
			AddTag("variant", r.Variant).
			AddTag("collection", k).
			AddField("items", r.Collections[k]).
			SetTime(r.Time)
		if err := s.boots.WritePoint(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick queues a robot_tick point. Write errors surface in the log.
func (s *InfluxSink) RecordTick(t coremetrics.TickSample) error {
	p := write.NewPointWithMeasurement("robot_tick").
		AddTag("variant", t.Variant).
		AddField("seq", int64(t.Seq)).
		AddField("duration_ms", round3(t.Duration.Seconds()*1000)).
		AddField("overrun", t.Overrun).
		SetTime(t.Time)
	s.ticks.WritePoint(p)
	return nil
}

// Close flushes pending ticks and releases the client.
func (s *InfluxSink) Close() {
	s.ticks.Flush()
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
