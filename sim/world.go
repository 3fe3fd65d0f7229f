package sim

import (
	"fmt"
	"time"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/core/tasking"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// ResourceSnapshot is the stock accounting of one recipe resource.
type ResourceSnapshot struct {
	Ware    string
	Stock   int
	Inbound int
}

// DepotSnapshot is the observable state of one depot after a step.
type DepotSnapshot struct {
	Name         string
	ProductWare  string
	ProductStock int
	Reserved     int
	Resources    []ResourceSnapshot
	IdleWorkers  int
	OpenOrders   bool
}

// Snapshot is the observable state of the world after a step.
type Snapshot struct {
	Clock  time.Duration
	Depots []DepotSnapshot
}

// World owns the depots and drives the simulation clock. It doubles as the
// market: depots looking for a supplier scan the world's depot list.
type World struct {
	depots    []*Depot
	byName    map[string]*Depot
	snapshots *eventbus.Feed[Snapshot]
	clock     time.Duration
	log       logger.Logger
}

// NewWorld builds the economy described by the config. Depots are created in
// declaration order, which is also the market's supplier search order.
func NewWorld(cfg WorldConfig, log logger.Logger) (*World, error) {
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}

	wares := make(map[string]model.Ware, len(cfg.Wares))
	for _, w := range cfg.Wares {
		ware := model.Ware{
			Code:               w.Code,
			Name:               w.Name,
			MinimumOrderAmount: w.MinimumOrderAmount,
			StorageSize:        w.StorageSize,
		}
		if err := ware.Validate(); err != nil {
			return nil, fmt.Errorf("ware %s: %w", w.Code, err)
		}
		wares[w.Code] = ware
	}

	w := &World{
		byName:    make(map[string]*Depot, len(cfg.Depots)),
		snapshots: eventbus.NewFeed[Snapshot](),
		log:       log,
	}
	for _, dc := range cfg.Depots {
		product := model.Product{Ware: wares[dc.Product]}
		for _, code := range dc.Resources {
			product.Resources = append(product.Resources, wares[code])
		}
		depot := NewDepot(dc, cfg, product, w, log)
		w.depots = append(w.depots, depot)
		w.byName[dc.Name] = depot
	}
	return w, nil
}

// FindSupplier returns the first depot selling the ware that can take an
// order right now: a free reservation slot, a free bay, and at least the
// ware's minimum order amount in unreserved stock. Returns nil when no depot
// qualifies.
func (w *World) FindSupplier(ware model.Ware) *tasking.ProductOrderManager {
	for _, d := range w.depots {
		if d.Product().Ware.Code != ware.Code {
			continue
		}
		pom := d.ProductOrders()
		if !pom.CanAccept() || pom.AvailableStock() < ware.MinimumOrderAmount {
			continue
		}
		return pom
	}
	return nil
}

// Depot returns a depot by name, or nil.
func (w *World) Depot(name string) *Depot { return w.byName[name] }

// Depots returns the depots in declaration order.
func (w *World) Depots() []*Depot { return w.depots }

// Clock returns the accumulated simulation time.
func (w *World) Clock() time.Duration { return w.clock }

// Snapshots returns the feed carrying one Snapshot per step. Consumers run
// outside the tick loop; a slow consumer misses snapshots rather than
// stalling the world.
func (w *World) Snapshots() *eventbus.Feed[Snapshot] { return w.snapshots }

// Step advances every depot by dt in declaration order, then publishes a
// snapshot. The world is single-threaded: Step is the only entry point that
// mutates state, and everything it triggers runs on the calling goroutine.
func (w *World) Step(dt time.Duration) {
	for _, d := range w.depots {
		d.Tick(dt)
	}
	w.clock += dt
	w.snapshots.Publish(w.snapshot())
}

// Close releases the snapshot feed.
func (w *World) Close() {
	w.snapshots.Close()
}

func (w *World) snapshot() Snapshot {
	s := Snapshot{Clock: w.clock, Depots: make([]DepotSnapshot, 0, len(w.depots))}
	for _, d := range w.depots {
		ds := DepotSnapshot{
			Name:         d.Name(),
			ProductWare:  d.Product().Ware.Code,
			ProductStock: d.storage.ProductStock(),
			Reserved:     d.ProductOrders().Reserved(),
			IdleWorkers:  d.Workers().IdleWorkers(),
			OpenOrders:   d.ResourceOrders().HasOpenOrder(),
		}
		for i := 0; i < d.Product().ResourceCount(); i++ {
			ds.Resources = append(ds.Resources, ResourceSnapshot{
				Ware:    d.Product().Resource(i).Code,
				Stock:   d.storage.ResourceStock(i),
				Inbound: d.ResourceOrders().Inbound(i),
			})
		}
		s.Depots = append(s.Depots, ds)
	}
	return s
}
