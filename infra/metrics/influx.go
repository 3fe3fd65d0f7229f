package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/tbochard/freightyard/core/metrics"
	"github.com/tbochard/freightyard/infra/logger"
)

// InfluxSink writes order traffic and stock levels to an InfluxDB instance
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

// RecordOrderEvent writes the order transition as a line protocol event.
func (s *InfluxSink) RecordOrderEvent(ev coremetrics.OrderEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("order_event").
		AddTag("depot", ev.Depot).
		AddTag("event", string(ev.Kind)).
		AddTag("ware", ev.Ware).
		AddTag("order_number", strconv.Itoa(ev.OrderNumber)).
		AddField("quantity", ev.Quantity).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordResourceLevel writes a consumer-side stock snapshot.
func (s *InfluxSink) RecordResourceLevel(ev coremetrics.ResourceLevelEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("resource_level").
		AddTag("depot", ev.Depot).
		AddTag("ware", ev.Ware).
		AddField("stock", ev.Stock).
		AddField("inbound", ev.Inbound).
		AddField("capacity", ev.Capacity).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordProductLevel writes a producer-side stock snapshot.
func (s *InfluxSink) RecordProductLevel(ev coremetrics.ProductLevelEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("product_level").
		AddTag("depot", ev.Depot).
		AddTag("ware", ev.Ware).
		AddField("stock", ev.Stock).
		AddField("reserved", ev.Reserved).
		AddField("capacity", ev.Capacity).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordIdleWorkers writes a pool utilization snapshot.
func (s *InfluxSink) RecordIdleWorkers(ev coremetrics.IdleWorkersEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("idle_workers").
		AddTag("pool", ev.Pool).
		AddField("idle", ev.Idle).
		AddField("total", ev.Total).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}
