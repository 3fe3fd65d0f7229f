package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tbochard/freightyard/config"
	coremetrics "github.com/tbochard/freightyard/core/metrics"
	"github.com/tbochard/freightyard/infra/logger"
	"github.com/tbochard/freightyard/infra/metrics"
	"github.com/tbochard/freightyard/sim"
)

// snapshotLogEvery throttles the periodic world-state log line.
const snapshotLogEvery = 50

// Service owns the simulated world and its observability plumbing.
type Service struct {
	world *sim.World
	sink  coremetrics.Sink
	log   logger.Logger
	tick  time.Duration

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL,
			cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	world, err := sim.NewWorld(cfg.World, logger.New("world"))
	if err != nil {
		return nil, err
	}
	for _, d := range world.Depots() {
		metrics.CollectManagerEvents(d.Name(), d.Product(), d.ConsumerChannel(), sink)
		metrics.CollectManagerEvents(d.Name(), d.Product(), d.ProducerChannel(), sink)
		metrics.CollectWorkerPool(d.Name()+" haulers", d.Workers(), sink)
	}

	return &Service{
		world:       world,
		sink:        sink,
		log:         logg,
		tick:        cfg.World.TickInterval(),
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// World returns the simulated world.
func (s *Service) World() *sim.World { return s.world }

// Run drives the world until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	sub := s.world.Snapshots().Subscribe()
	go s.logSnapshots(ctx, sub)

	s.log.Infof("world started with %d depots, tick %v", len(s.world.Depots()), s.tick)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.world.Step(s.tick)
		}
	}
}

// logSnapshots logs a periodic condensed view of the world.
func (s *Service) logSnapshots(ctx context.Context, sub <-chan sim.Snapshot) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub:
			if !ok {
				return
			}
			n++
			if n%snapshotLogEvery != 0 {
				continue
			}
			for _, d := range snap.Depots {
				s.log.Debugw("depot state", map[string]any{
					"clock":   snap.Clock.String(),
					"depot":   d.Name,
					"product": d.ProductWare,
					"stock":   d.ProductStock,
					"idle":    d.IdleWorkers,
				})
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.world.Close()
	if c, ok := s.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
